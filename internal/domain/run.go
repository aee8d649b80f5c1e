package domain

import "time"

// RunStatus is the lifecycle state of an AnalysisRun. Every run moves
// from running to exactly one terminal state.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// AnalysisRun records one pass of the orchestrator over the active
// asset set.
type AnalysisRun struct {
	ID              int64      `db:"id" json:"id"`
	Status          RunStatus  `db:"status" json:"status"`
	Mode            string     `db:"mode" json:"mode"`
	StartedAt       time.Time  `db:"started_at" json:"startedAt"`
	CompletedAt     *time.Time `db:"completed_at" json:"completedAt,omitempty"`
	AssetsProcessed int        `db:"assets_processed" json:"assetsProcessed"`
	ErrorCount      int        `db:"error_count" json:"errorCount"`
	ErrorMessage    *string    `db:"error_message" json:"errorMessage,omitempty"`
}
