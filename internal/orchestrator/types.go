package orchestrator

import (
	"context"
	"time"

	"github.com/cryptrend/analytics/internal/domain"
	"github.com/cryptrend/analytics/internal/indicators"
	"github.com/cryptrend/analytics/internal/signal"
	"github.com/cryptrend/analytics/internal/trend"
)

// Store is everything the orchestrator needs from persistence. Split
// out as an interface so a run can be driven against an in-memory fake
// in tests instead of Postgres.
type Store interface {
	ActiveAssets(ctx context.Context) ([]domain.Asset, error)
	Bars(ctx context.Context, assetID int64, since time.Time) ([]domain.Bar, error)
	RecentSignals(ctx context.Context, assetID int64, since time.Time) ([]domain.SignalEvent, error)

	UpsertTrend(ctx context.Context, rec domain.TrendRecord) error
	InsertSignals(ctx context.Context, signals []domain.SignalEvent) error

	StartRun(ctx context.Context, mode string) (int64, error)
	CompleteRun(ctx context.Context, runID int64, assetsProcessed, errorCount int) error
	FailRun(ctx context.Context, runID int64, assetsProcessed, errorCount int, message string) error
}

// Config controls one orchestrator instance. Mode picks both the trend
// classifier and signal detector variant; a run never mixes them.
type Config struct {
	Mode            string
	WorkerCount     int
	BarLookbackDays int
	DedupeWindow    time.Duration
	IndicatorConfig indicators.Config
}

// DefaultConfig mirrors the reference runner's fixed constants: 180
// days of history, advanced mode, and a dedup lookback matching the
// detector's own 3-day collision window. WorkerCount of 0 means "use
// runtime.NumCPU(), capped at the asset count".
func DefaultConfig() Config {
	return Config{
		Mode:            "advanced",
		WorkerCount:     0,
		BarLookbackDays: 180,
		DedupeWindow:    3 * 24 * time.Hour,
		IndicatorConfig: indicators.DefaultConfig(),
	}
}

func (c Config) trendMode() trend.Mode {
	if c.Mode == "legacy" {
		return trend.ModeLegacy
	}
	return trend.ModeAdvanced
}

func (c Config) signalMode() signal.Mode {
	if c.Mode == "legacy" {
		return signal.ModeLegacy
	}
	return signal.ModeAdvanced
}

// minDataPoints is the fewest bars an asset needs before the
// orchestrator bothers analyzing it at all.
const minDataPoints = 14

// assetOutcome is one worker's result for one asset, collected on the
// results channel so the run-level counters stay lock-free.
type assetOutcome struct {
	assetID int64
	err     error
}
