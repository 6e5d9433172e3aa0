package types

import "time"

// CompletionPath is a top-level phase of work grouping milestones. Paths are
// ordered by Ordinal; the lowest-ordinal non-completed path is the active one.
// Path status is mutated only by rollup logic, never set directly by callers.
type CompletionPath struct {
	PathID      string     `json:"path_id"`
	ProjectID   string     `json:"project_id"`
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	Ordinal     int        `json:"ordinal"`
	CompletedAt *time.Time `json:"completed_at"`
}

// Activate moves the path from pending to in_progress.
// Returns ErrInvalidTransition from any other state.
func (cp *CompletionPath) Activate() error {
	if cp.Status != StatusPending {
		return ErrInvalidTransition
	}
	cp.Status = StatusInProgress
	return nil
}

// Complete marks the path finished. The current status must be in_progress;
// rollup logic calls this only after every milestone on the path completed.
func (cp *CompletionPath) Complete() error {
	if cp.Status != StatusInProgress {
		return ErrInvalidTransition
	}
	now := time.Now().UTC()
	cp.Status = StatusCompleted
	cp.CompletedAt = &now
	return nil
}
