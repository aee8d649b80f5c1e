package storage

import (
	"context"
	"time"

	"github.com/cryptrend/analytics/internal/domain"
	"github.com/jmoiron/sqlx"
)

// Store composes the per-table repositories behind the single
// interface the orchestrator depends on, so cmd/analyzer can wire up
// one object instead of five.
type Store struct {
	assets *AssetRepository
	bars   *BarRepository
	trends *TrendRepository
	signals *SignalRepository
	runs   *RunRepository
}

// NewStore builds a Store over db.
func NewStore(db *sqlx.DB) *Store {
	return &Store{
		assets:  NewAssetRepository(db),
		bars:    NewBarRepository(db),
		trends:  NewTrendRepository(db),
		signals: NewSignalRepository(db),
		runs:    NewRunRepository(db),
	}
}

func (s *Store) ActiveAssets(ctx context.Context) ([]domain.Asset, error) {
	return s.assets.ActiveAssets(ctx)
}

func (s *Store) Bars(ctx context.Context, assetID int64, since time.Time) ([]domain.Bar, error) {
	return s.bars.Bars(ctx, assetID, since)
}

func (s *Store) RecentSignals(ctx context.Context, assetID int64, since time.Time) ([]domain.SignalEvent, error) {
	return s.signals.Recent(ctx, assetID, since)
}

func (s *Store) UpsertTrend(ctx context.Context, rec domain.TrendRecord) error {
	return s.trends.Upsert(ctx, rec)
}

func (s *Store) InsertSignals(ctx context.Context, signals []domain.SignalEvent) error {
	return s.signals.Insert(ctx, signals)
}

func (s *Store) StartRun(ctx context.Context, mode string) (int64, error) {
	return s.runs.Start(ctx, mode)
}

func (s *Store) CompleteRun(ctx context.Context, runID int64, assetsProcessed, errorCount int) error {
	return s.runs.Complete(ctx, runID, assetsProcessed, errorCount)
}

func (s *Store) FailRun(ctx context.Context, runID int64, assetsProcessed, errorCount int, message string) error {
	return s.runs.Fail(ctx, runID, assetsProcessed, errorCount, message)
}
