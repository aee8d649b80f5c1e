package query

import (
	"context"
	"fmt"
	"time"
)

// Interpreter routes a classified Intent to the matching Store method,
// applying the shared timeframe-cutoff/confidence-floor/limit policy
// before handing off.
type Interpreter struct {
	store Store
	now   func() time.Time
}

// NewInterpreter builds an Interpreter against store. now defaults to
// time.Now; tests can override it for deterministic cutoffs.
func NewInterpreter(store Store, now func() time.Time) Interpreter {
	if now == nil {
		now = time.Now
	}
	return Interpreter{store: store, now: now}
}

// ErrUnsupportedIntent is returned when intent.Type matches none of
// the fixed retrieval policies.
var ErrUnsupportedIntent = fmt.Errorf("unsupported intent")

// Resolve runs intent against the store using filters, applying
// Filters.Timeframe as an override of intent.Timeframe when set.
func (in Interpreter) Resolve(ctx context.Context, intent Intent, filters Filters) (Result, error) {
	timeframe := intent.Timeframe
	if filters.Timeframe != "" {
		timeframe = filters.Timeframe
	}
	if timeframe == "" {
		timeframe = DefaultFilters().Timeframe
	}
	limit := filters.Limit
	if limit <= 0 {
		limit = DefaultFilters().Limit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	minConfidence := filters.MinConfidence

	since := timeframeCutoff(in.now(), timeframe)
	symbols := intent.Cryptocurrencies

	switch intent.Type {
	case IntentPumpAndDump:
		rows, err := in.store.PumpAndDumpSignals(ctx, symbols, since, minConfidence, limit)
		return Result{Intent: intent.Type, Signals: rows}, err

	case IntentVolumeSpike:
		rows, err := in.store.VolumeAnomalySignals(ctx, symbols, since, minConfidence, limit)
		return Result{Intent: intent.Type, Signals: rows}, err

	case IntentBottomedOut:
		rows, err := in.store.BottomedOutSignals(ctx, symbols, since, minConfidence, limit)
		return Result{Intent: intent.Type, BottomedOut: rows}, err

	case IntentUptrend:
		rows, err := in.store.TrendsByType(ctx, "uptrend", timeframe, symbols, since, minConfidence, limit)
		return Result{Intent: intent.Type, Trends: rows}, err

	case IntentDowntrend:
		rows, err := in.store.TrendsByType(ctx, "downtrend", timeframe, symbols, since, minConfidence, limit)
		return Result{Intent: intent.Type, Trends: rows}, err

	case IntentHighVolatility:
		rows, err := in.store.HighVolatility(ctx, symbols, since, limit)
		return Result{Intent: intent.Type, Volatility: rows}, err

	case IntentTrending:
		rows, err := in.store.Trending(ctx, since, limit)
		return Result{Intent: intent.Type, Trending: rows}, err

	case IntentPerformance:
		rows, err := in.store.Performance(ctx, symbols, timeframe, limit)
		return Result{Intent: intent.Type, Performance: rows}, err

	default:
		return Result{}, ErrUnsupportedIntent
	}
}
