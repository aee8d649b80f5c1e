package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/cryptrend/analytics/internal/domain"
	"github.com/jmoiron/sqlx"
)

// BarRepository persists and reads OHLCV bars.
type BarRepository struct {
	db *sqlx.DB
}

// NewBarRepository creates a new bar repository.
func NewBarRepository(db *sqlx.DB) *BarRepository {
	return &BarRepository{db: db}
}

// Bars returns an asset's bars at or after since, oldest first — the
// shape the indicator kernel and classifiers expect.
func (r *BarRepository) Bars(ctx context.Context, assetID int64, since time.Time) ([]domain.Bar, error) {
	const query = `
		SELECT id, crypto_id AS asset_id, timestamp, open, high, low,
		       price_usd AS close, volume_24h AS volume, market_cap,
		       percent_change_1h, percent_change_24h, percent_change_7d
		FROM price_data
		WHERE crypto_id = $1 AND timestamp >= $2
		ORDER BY timestamp ASC
	`
	var bars []domain.Bar
	if err := r.db.SelectContext(ctx, &bars, query, assetID, since); err != nil {
		return nil, fmt.Errorf("select bars for asset %d: %w", assetID, err)
	}
	return bars, nil
}

// Upsert inserts a bar, overwriting the row on a (asset_id, timestamp)
// collision — the ingestion interface's idempotent write path
// (SPEC_FULL.md §3).
func (r *BarRepository) Upsert(ctx context.Context, assetID int64, bar domain.Bar) error {
	const query = `
		INSERT INTO price_data (
			crypto_id, timestamp, open, high, low, price_usd, volume_24h,
			market_cap, percent_change_1h, percent_change_24h, percent_change_7d
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (crypto_id, timestamp) DO UPDATE SET
			open               = excluded.open,
			high               = excluded.high,
			low                = excluded.low,
			price_usd          = excluded.price_usd,
			volume_24h         = excluded.volume_24h,
			market_cap         = excluded.market_cap,
			percent_change_1h  = excluded.percent_change_1h,
			percent_change_24h = excluded.percent_change_24h,
			percent_change_7d  = excluded.percent_change_7d
	`
	_, err := r.db.ExecContext(ctx, query,
		assetID, bar.Timestamp, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume,
		bar.MarketCap, bar.PercentChange1h, bar.PercentChange24h, bar.PercentChange7d,
	)
	if err != nil {
		return fmt.Errorf("upsert bar for asset %d: %w", assetID, err)
	}
	return nil
}
