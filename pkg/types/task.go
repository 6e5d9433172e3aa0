package types

import "time"

// Task is a unit of work within a milestone. A task carries zero or more
// items; it completes only when every item is done, or when it has no items
// and is explicitly marked complete.
type Task struct {
	TaskID      string     `json:"task_id"`
	MilestoneID string     `json:"milestone_id"`
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	Ordinal     int        `json:"ordinal"`
	CompletedAt *time.Time `json:"completed_at"`
	Items       []Item     `json:"items,omitempty"`
}

// Item is the smallest trackable checklist entry within a task.
type Item struct {
	ItemID      string `json:"item_id"`
	TaskID      string `json:"task_id"`
	Description string `json:"description"`
	Done        bool   `json:"done"`
	Ordinal     int    `json:"ordinal"`
}

// ItemsDone reports whether every item on the task is done.
// Vacuously true for a task with no items.
func (t *Task) ItemsDone() bool {
	for _, it := range t.Items {
		if !it.Done {
			return false
		}
	}
	return true
}

// Start moves the task from pending to in_progress. Idempotent when already
// in progress; ErrInvalidTransition when completed.
func (t *Task) Start() error {
	switch t.Status {
	case StatusPending:
		t.Status = StatusInProgress
		return nil
	case StatusInProgress:
		return nil
	default:
		return ErrInvalidTransition
	}
}

// Complete marks the task finished. All items must be done unless override is
// set, in which case remaining items are marked done first so the bottom-up
// completion invariant still holds. Completing an already-completed task
// returns ErrInvalidTransition; the store treats that case as a no-op before
// calling this method.
func (t *Task) Complete(override bool) error {
	if t.Status == StatusCompleted {
		return ErrInvalidTransition
	}
	if !t.ItemsDone() {
		if !override {
			return ErrInvalidTransition
		}
		for i := range t.Items {
			t.Items[i].Done = true
		}
	}
	now := time.Now().UTC()
	t.Status = StatusCompleted
	t.CompletedAt = &now
	return nil
}
