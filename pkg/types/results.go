package types

import "time"

// ItemCompletion reports the outcome of completing a single checklist item.
type ItemCompletion struct {
	Task *Task `json:"task"`

	// AlreadyComplete is set when the item or its task was already done.
	// That case is a reported no-op, not an error.
	AlreadyComplete bool `json:"already_complete"`

	// TaskCompleted is set when this item was the last one outstanding and
	// the task was not explicitly completed yet. The task itself stays
	// in_progress until CompleteTask is called; this flag tells the caller
	// the task is now completable.
	TaskCompletable bool `json:"task_completable"`
}

// TaskCompletion reports the outcome of a task completion and the rollup it
// triggered. All fields reflect fully-committed state.
type TaskCompletion struct {
	Task            *Task `json:"task"`
	AlreadyComplete bool  `json:"already_complete"`

	MilestoneCompleted bool `json:"milestone_completed"`
	PathCompleted      bool `json:"path_completed"`
	ProjectCompleted   bool `json:"project_completed"`

	// NextMilestone is the milestone activated by the rollup, if any. It has
	// no tasks yet; the caller must supply task definitions before further
	// progress is possible.
	NextMilestone *Milestone `json:"next_milestone,omitempty"`
}

// SyncKind tags the outcome of a revision checkpoint.
type SyncKind string

// Checkpoint outcomes.
const (
	// SyncInitialized: no prior hash existed; the current hash is now the
	// baseline. No change detection was performed.
	SyncInitialized SyncKind = "initialized"

	// SyncUnchanged: the current hash equals the stored hash; only the sync
	// timestamp was refreshed.
	SyncUnchanged SyncKind = "unchanged"

	// SyncChanged: the hashes differ; the store now records the new hash.
	// Interpreting what changed is left to downstream analysis.
	SyncChanged SyncKind = "changed"
)

// SyncResult is the outcome of one checkpoint run.
type SyncResult struct {
	Kind     SyncKind  `json:"kind"`
	OldHash  string    `json:"old_hash,omitempty"`
	NewHash  string    `json:"new_hash"`
	SyncedAt time.Time `json:"synced_at"`
}
