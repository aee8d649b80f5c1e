package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cryptrend/analytics/internal/domain"
	"github.com/jmoiron/sqlx"
)

// RunRepository owns the AnalysisRun lifecycle rows.
type RunRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a new run repository.
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Start inserts a new running AnalysisRun and returns its ID.
func (r *RunRepository) Start(ctx context.Context, mode string) (int64, error) {
	const query = `
		INSERT INTO analysis_runs (status, mode, started_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	var id int64
	if err := r.db.QueryRowContext(ctx, query, domain.RunStatusRunning, mode, time.Now()).Scan(&id); err != nil {
		return 0, fmt.Errorf("start analysis run: %w", err)
	}
	return id, nil
}

// Complete transitions a run to completed exactly once.
func (r *RunRepository) Complete(ctx context.Context, runID int64, assetsProcessed, errorCount int) error {
	const query = `
		UPDATE analysis_runs
		SET status = $2, completed_at = $3, assets_processed = $4, error_count = $5
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, runID, domain.RunStatusCompleted, time.Now(), assetsProcessed, errorCount)
	if err != nil {
		return fmt.Errorf("complete analysis run %d: %w", runID, err)
	}
	return nil
}

// Fail transitions a run to failed exactly once, recording message as
// error_message ("cancelled" on context cancellation).
func (r *RunRepository) Fail(ctx context.Context, runID int64, assetsProcessed, errorCount int, message string) error {
	const query = `
		UPDATE analysis_runs
		SET status = $2, completed_at = $3, assets_processed = $4, error_count = $5, error_message = $6
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, runID, domain.RunStatusFailed, time.Now(), assetsProcessed, errorCount, message)
	if err != nil {
		return fmt.Errorf("fail analysis run %d: %w", runID, err)
	}
	return nil
}

// Get retrieves a run by ID.
func (r *RunRepository) Get(ctx context.Context, runID int64) (domain.AnalysisRun, error) {
	const query = `
		SELECT id, status, mode, started_at, completed_at, assets_processed, error_count, error_message
		FROM analysis_runs
		WHERE id = $1
	`
	var run domain.AnalysisRun
	err := r.db.GetContext(ctx, &run, query, runID)
	if err == sql.ErrNoRows {
		return domain.AnalysisRun{}, domain.ErrRunNotFound
	}
	if err != nil {
		return domain.AnalysisRun{}, fmt.Errorf("get analysis run %d: %w", runID, err)
	}
	return run, nil
}
