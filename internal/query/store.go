package query

import (
	"context"
	"time"
)

// Store is the retrieval surface the interpreter routes onto — one
// method per intent family, each already scoped to the ticker filter,
// confidence floor, timeframe cutoff, and result limit the caller
// resolved. Implemented by internal/storage against Postgres.
type Store interface {
	PumpAndDumpSignals(ctx context.Context, symbols []string, since time.Time, minConfidence float64, limit int) ([]SignalResult, error)
	VolumeAnomalySignals(ctx context.Context, symbols []string, since time.Time, minConfidence float64, limit int) ([]SignalResult, error)
	BottomedOutSignals(ctx context.Context, symbols []string, since time.Time, minConfidence float64, limit int) ([]BottomedOutResult, error)
	TrendsByType(ctx context.Context, trendType string, timeframe string, symbols []string, since time.Time, minConfidence float64, limit int) ([]TrendResult, error)
	HighVolatility(ctx context.Context, symbols []string, since time.Time, limit int) ([]VolatilityResult, error)
	Trending(ctx context.Context, since time.Time, limit int) ([]TrendingResult, error)
	Performance(ctx context.Context, symbols []string, timeframe string, limit int) ([]PerformanceResult, error)

	LogQuery(ctx context.Context, queryText string, intent Intent, resultCount int, executionTime time.Duration) error
}
