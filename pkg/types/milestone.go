package types

import "time"

// Milestone is a phase within a completion path. A milestone becomes
// completed only when all of its tasks are completed; the store enforces this
// as an atomic check-and-update, not a caller-settable flag.
type Milestone struct {
	MilestoneID string     `json:"milestone_id"`
	PathID      string     `json:"path_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Ordinal     int        `json:"ordinal"`
	CompletedAt *time.Time `json:"completed_at"`
}

// Activate moves the milestone from pending to in_progress. A newly
// activated milestone has no tasks until an external task definition is
// supplied; progress simply has nothing to operate on until then.
func (m *Milestone) Activate() error {
	if m.Status != StatusPending {
		return ErrInvalidTransition
	}
	m.Status = StatusInProgress
	return nil
}

// Complete marks the milestone finished and stamps CompletedAt. The current
// status must be in_progress. Completed is terminal.
func (m *Milestone) Complete() error {
	if m.Status != StatusInProgress {
		return ErrInvalidTransition
	}
	now := time.Now().UTC()
	m.Status = StatusCompleted
	m.CompletedAt = &now
	return nil
}
