// Package sqlite implements the SQLite storage backend for the Waymark
// project store. SQLite is the query engine; JSONL files in the data
// directory are the source of truth and are rebuilt into the database on
// Attach. External tooling reads the JSONL files directly.
package sqlite

// Schema DDL for all tables. The project table holds exactly one row.
const (
	createProject = `CREATE TABLE project (
    project_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    status TEXT NOT NULL,
    last_known_git_hash TEXT,
    last_git_sync TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createPaths = `CREATE TABLE completion_paths (
    path_id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL,
    name TEXT NOT NULL,
    status TEXT NOT NULL,
    ordinal INTEGER NOT NULL,
    completed_at TEXT,
    FOREIGN KEY (project_id) REFERENCES project(project_id)
);`

	createMilestones = `CREATE TABLE milestones (
    milestone_id TEXT PRIMARY KEY,
    path_id TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT,
    status TEXT NOT NULL,
    ordinal INTEGER NOT NULL,
    completed_at TEXT,
    FOREIGN KEY (path_id) REFERENCES completion_paths(path_id)
);`

	createTasks = `CREATE TABLE tasks (
    task_id TEXT PRIMARY KEY,
    milestone_id TEXT NOT NULL,
    name TEXT NOT NULL,
    status TEXT NOT NULL,
    ordinal INTEGER NOT NULL,
    completed_at TEXT,
    FOREIGN KEY (milestone_id) REFERENCES milestones(milestone_id)
);`

	createItems = `CREATE TABLE items (
    item_id TEXT PRIMARY KEY,
    task_id TEXT NOT NULL,
    description TEXT NOT NULL,
    done INTEGER NOT NULL DEFAULT 0,
    ordinal INTEGER NOT NULL,
    FOREIGN KEY (task_id) REFERENCES tasks(task_id)
);`

	createNotes = `CREATE TABLE notes (
    note_id TEXT PRIMARY KEY,
    note_type TEXT NOT NULL,
    message TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

	createIndexes = `
CREATE INDEX idx_paths_ordinal ON completion_paths(project_id, ordinal);
CREATE INDEX idx_milestones_path ON milestones(path_id, ordinal);
CREATE INDEX idx_tasks_milestone ON tasks(milestone_id, ordinal);
CREATE INDEX idx_items_task ON items(task_id, ordinal);
CREATE INDEX idx_notes_type ON notes(note_type, created_at);
`
)

// schemaSQL is the complete DDL executed on Attach.
var schemaSQL = createProject + "\n" +
	createPaths + "\n" +
	createMilestones + "\n" +
	createTasks + "\n" +
	createItems + "\n" +
	createNotes + "\n" +
	createIndexes
