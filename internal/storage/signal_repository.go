package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/cryptrend/analytics/internal/domain"
	"github.com/jmoiron/sqlx"
)

// SignalRepository persists and reads detected signals. Signals are
// append-only — deduplication and rate-limiting are the detector's
// job, not a uniqueness constraint here.
type SignalRepository struct {
	db *sqlx.DB
}

// NewSignalRepository creates a new signal repository.
func NewSignalRepository(db *sqlx.DB) *SignalRepository {
	return &SignalRepository{db: db}
}

// Insert appends every signal in one statement per row, inside a
// transaction so a partial failure doesn't leave half a scan
// persisted.
func (r *SignalRepository) Insert(ctx context.Context, signals []domain.SignalEvent) error {
	if len(signals) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin signal insert: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO signal_events (
			crypto_id, signal_type, confidence, detected_at, trigger_price,
			volume_spike_ratio, metadata
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, s := range signals {
		if _, err := tx.ExecContext(ctx, query,
			s.AssetID, s.SignalType, s.Confidence, s.DetectedAt, s.TriggerPrice,
			s.VolumeSpikeRatio, jsonMap(s.Metadata),
		); err != nil {
			return fmt.Errorf("insert signal for asset %d: %w", s.AssetID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit signal insert: %w", err)
	}
	return nil
}

// Recent returns an asset's signals detected at or after since, used
// for cross-run deduplication.
func (r *SignalRepository) Recent(ctx context.Context, assetID int64, since time.Time) ([]domain.SignalEvent, error) {
	const query = `
		SELECT id, crypto_id AS asset_id, signal_type, confidence, detected_at,
		       trigger_price, volume_spike_ratio, metadata, created_at
		FROM signal_events
		WHERE crypto_id = $1 AND detected_at >= $2
	`
	var rows []signalRow
	if err := r.db.SelectContext(ctx, &rows, query, assetID, since); err != nil {
		return nil, fmt.Errorf("select recent signals for asset %d: %w", assetID, err)
	}

	out := make([]domain.SignalEvent, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

// signalRow mirrors domain.SignalEvent but scans metadata through
// jsonMap, since map[string]any has no direct sql.Scanner.
type signalRow struct {
	ID               int64             `db:"id"`
	AssetID          int64             `db:"asset_id"`
	SignalType       domain.SignalType `db:"signal_type"`
	Confidence       float64           `db:"confidence"`
	DetectedAt       time.Time         `db:"detected_at"`
	TriggerPrice     *float64          `db:"trigger_price"`
	VolumeSpikeRatio *float64          `db:"volume_spike_ratio"`
	Metadata         jsonMap           `db:"metadata"`
	CreatedAt        time.Time         `db:"created_at"`
}

func (row signalRow) toDomain() domain.SignalEvent {
	return domain.SignalEvent{
		ID:               row.ID,
		AssetID:          row.AssetID,
		SignalType:       row.SignalType,
		Confidence:       row.Confidence,
		DetectedAt:       row.DetectedAt,
		TriggerPrice:     row.TriggerPrice,
		VolumeSpikeRatio: row.VolumeSpikeRatio,
		Metadata:         map[string]any(row.Metadata),
		CreatedAt:        row.CreatedAt,
	}
}
