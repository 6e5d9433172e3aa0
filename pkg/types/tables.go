package types

// Standard table names. These are also the basenames of the JSONL files in
// the data directory (project.jsonl, completion_paths.jsonl, ...).
const (
	TableProject    = "project"
	TablePaths      = "completion_paths"
	TableMilestones = "milestones"
	TableTasks      = "tasks"
	TableItems      = "items"
	TableNotes      = "notes"
)
