package storage

import (
	"context"
	"fmt"

	"github.com/cryptrend/analytics/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// AssetRepository reads the tracked cryptocurrency set.
type AssetRepository struct {
	db *sqlx.DB
}

// NewAssetRepository creates a new asset repository.
func NewAssetRepository(db *sqlx.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// ActiveAssets returns every active asset ordered by rank, the order
// the orchestrator processes them in.
func (r *AssetRepository) ActiveAssets(ctx context.Context) ([]domain.Asset, error) {
	const query = `
		SELECT id, symbol, name, rank, is_active, created_at
		FROM cryptocurrencies
		WHERE is_active = true
		ORDER BY rank ASC
	`
	var assets []domain.Asset
	if err := r.db.SelectContext(ctx, &assets, query); err != nil {
		return nil, fmt.Errorf("select active assets: %w", err)
	}
	return assets, nil
}

// BySymbols returns the assets matching the given ticker symbols. The
// query path filters by symbol in SQL (QueryStore) and does not call
// it.
func (r *AssetRepository) BySymbols(ctx context.Context, symbols []string) ([]domain.Asset, error) {
	if len(symbols) == 0 {
		return nil, nil
	}
	const query = `
		SELECT id, symbol, name, rank, is_active, created_at
		FROM cryptocurrencies
		WHERE symbol = ANY($1)
	`
	var assets []domain.Asset
	if err := r.db.SelectContext(ctx, &assets, query, pq.Array(symbols)); err != nil {
		return nil, fmt.Errorf("select assets by symbol: %w", err)
	}
	return assets, nil
}
