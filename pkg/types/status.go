package types

// Shared progress states for completion paths, milestones, and tasks.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Project states. A project is created active and ends complete or archived.
const (
	ProjectActive   = "active"
	ProjectComplete = "complete"
	ProjectArchived = "archived"
)

// validStatuses is the set of recognized progress state values.
var validStatuses = map[string]bool{
	StatusPending:    true,
	StatusInProgress: true,
	StatusCompleted:  true,
}

// validProjectStatuses is the set of recognized project state values.
var validProjectStatuses = map[string]bool{
	ProjectActive:   true,
	ProjectComplete: true,
	ProjectArchived: true,
}

// ValidStatus reports whether s is a recognized progress state.
func ValidStatus(s string) bool { return validStatuses[s] }
