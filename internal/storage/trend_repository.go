package storage

import (
	"context"
	"fmt"

	"github.com/cryptrend/analytics/internal/domain"
	"github.com/jmoiron/sqlx"
)

// TrendRepository persists trend classifications.
type TrendRepository struct {
	db *sqlx.DB
}

// NewTrendRepository creates a new trend repository.
func NewTrendRepository(db *sqlx.DB) *TrendRepository {
	return &TrendRepository{db: db}
}

// Upsert writes a trend record, overwriting on a (asset_id, timeframe,
// start_time) collision so a re-run of the same window is idempotent.
func (r *TrendRepository) Upsert(ctx context.Context, rec domain.TrendRecord) error {
	const query = `
		INSERT INTO trend_analysis (
			crypto_id, timeframe, trend_type, confidence, start_time,
			end_time, price_change_percent, metadata
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (crypto_id, timeframe, start_time) DO UPDATE SET
			trend_type           = excluded.trend_type,
			confidence           = excluded.confidence,
			end_time             = excluded.end_time,
			price_change_percent = excluded.price_change_percent,
			metadata             = excluded.metadata
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.AssetID, rec.Timeframe, rec.TrendType, rec.Confidence, rec.StartTime,
		rec.EndTime, rec.PriceChangePercent, jsonMap(rec.Metadata),
	)
	if err != nil {
		return fmt.Errorf("upsert trend for asset %d timeframe %s: %w", rec.AssetID, rec.Timeframe, err)
	}
	return nil
}
