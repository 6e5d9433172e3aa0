// Entity accessors and row hydration for the completion tree.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/waymark/pkg/types"
)

// querier is satisfied by both *sql.DB and *sql.Tx so the same hydration
// helpers serve plain reads and rollup transactions.
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
}

// --- completion paths ---

const pathColumns = "path_id, project_id, name, status, ordinal, completed_at"

func scanPath(row *sql.Row) (*types.CompletionPath, error) {
	var (
		cp          types.CompletionPath
		completedAt sql.NullString
	)
	err := row.Scan(&cp.PathID, &cp.ProjectID, &cp.Name, &cp.Status, &cp.Ordinal, &completedAt)
	if err != nil {
		return nil, err
	}
	if cp.CompletedAt, err = parseTimePtr(completedAt); err != nil {
		return nil, fmt.Errorf("parsing path completed_at: %w", err)
	}
	return &cp, nil
}

func getPath(q querier, id string) (*types.CompletionPath, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	cp, err := scanPath(q.QueryRow("SELECT "+pathColumns+" FROM completion_paths WHERE path_id = ?", id))
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting path %s: %w", id, err)
	}
	return cp, nil
}

// Paths returns all completion paths ordered by ordinal.
func (b *Backend) Paths() ([]*types.CompletionPath, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkAttached(); err != nil {
		return nil, err
	}

	rows, err := b.db.Query("SELECT " + pathColumns + " FROM completion_paths ORDER BY ordinal")
	if err != nil {
		return nil, fmt.Errorf("listing paths: %w", err)
	}
	defer rows.Close()

	var paths []*types.CompletionPath
	for rows.Next() {
		var (
			cp          types.CompletionPath
			completedAt sql.NullString
		)
		if err := rows.Scan(&cp.PathID, &cp.ProjectID, &cp.Name, &cp.Status, &cp.Ordinal, &completedAt); err != nil {
			return nil, fmt.Errorf("scanning path: %w", err)
		}
		if cp.CompletedAt, err = parseTimePtr(completedAt); err != nil {
			return nil, fmt.Errorf("parsing path completed_at: %w", err)
		}
		paths = append(paths, &cp)
	}
	return paths, rows.Err()
}

// --- milestones ---

const milestoneColumns = "milestone_id, path_id, name, description, status, ordinal, completed_at"

func scanMilestoneValues(m *types.Milestone, description, completedAt sql.NullString) error {
	m.Description = description.String
	var err error
	if m.CompletedAt, err = parseTimePtr(completedAt); err != nil {
		return fmt.Errorf("parsing milestone completed_at: %w", err)
	}
	return nil
}

func getMilestone(q querier, id string) (*types.Milestone, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	var (
		m           types.Milestone
		description sql.NullString
		completedAt sql.NullString
	)
	err := q.QueryRow("SELECT "+milestoneColumns+" FROM milestones WHERE milestone_id = ?", id).
		Scan(&m.MilestoneID, &m.PathID, &m.Name, &description, &m.Status, &m.Ordinal, &completedAt)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting milestone %s: %w", id, err)
	}
	if err := scanMilestoneValues(&m, description, completedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// MilestonesForPath returns a path's milestones ordered by ordinal.
func (b *Backend) MilestonesForPath(pathID string) ([]*types.Milestone, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkAttached(); err != nil {
		return nil, err
	}
	return milestonesForPath(b.db, pathID)
}

func milestonesForPath(q querier, pathID string) ([]*types.Milestone, error) {
	if pathID == "" {
		return nil, types.ErrInvalidID
	}
	rows, err := q.Query("SELECT "+milestoneColumns+" FROM milestones WHERE path_id = ? ORDER BY ordinal", pathID)
	if err != nil {
		return nil, fmt.Errorf("listing milestones for path %s: %w", pathID, err)
	}
	defer rows.Close()

	var milestones []*types.Milestone
	for rows.Next() {
		var (
			m           types.Milestone
			description sql.NullString
			completedAt sql.NullString
		)
		if err := rows.Scan(&m.MilestoneID, &m.PathID, &m.Name, &description, &m.Status, &m.Ordinal, &completedAt); err != nil {
			return nil, fmt.Errorf("scanning milestone: %w", err)
		}
		if err := scanMilestoneValues(&m, description, completedAt); err != nil {
			return nil, err
		}
		milestones = append(milestones, &m)
	}
	return milestones, rows.Err()
}

// --- tasks and items ---

const taskColumns = "task_id, milestone_id, name, status, ordinal, completed_at"

func getTask(q querier, id string) (*types.Task, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	var (
		t           types.Task
		completedAt sql.NullString
	)
	err := q.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE task_id = ?", id).
		Scan(&t.TaskID, &t.MilestoneID, &t.Name, &t.Status, &t.Ordinal, &completedAt)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}
	if t.CompletedAt, err = parseTimePtr(completedAt); err != nil {
		return nil, fmt.Errorf("parsing task completed_at: %w", err)
	}
	if t.Items, err = itemsForTask(q, id); err != nil {
		return nil, err
	}
	return &t, nil
}

func itemsForTask(q querier, taskID string) ([]types.Item, error) {
	rows, err := q.Query("SELECT item_id, task_id, description, done, ordinal FROM items WHERE task_id = ? ORDER BY ordinal", taskID)
	if err != nil {
		return nil, fmt.Errorf("listing items for task %s: %w", taskID, err)
	}
	defer rows.Close()

	var items []types.Item
	for rows.Next() {
		var (
			it   types.Item
			done int
		)
		if err := rows.Scan(&it.ItemID, &it.TaskID, &it.Description, &done, &it.Ordinal); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		it.Done = done != 0
		items = append(items, it)
	}
	return items, rows.Err()
}

// TasksForMilestone returns a milestone's tasks ordered by ordinal,
// items included.
func (b *Backend) TasksForMilestone(milestoneID string) ([]*types.Task, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkAttached(); err != nil {
		return nil, err
	}
	return tasksForMilestone(b.db, milestoneID)
}

func tasksForMilestone(q querier, milestoneID string) ([]*types.Task, error) {
	if milestoneID == "" {
		return nil, types.ErrInvalidID
	}
	rows, err := q.Query("SELECT "+taskColumns+" FROM tasks WHERE milestone_id = ? ORDER BY ordinal", milestoneID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks for milestone %s: %w", milestoneID, err)
	}
	defer rows.Close()

	var tasks []*types.Task
	for rows.Next() {
		var (
			t           types.Task
			completedAt sql.NullString
		)
		if err := rows.Scan(&t.TaskID, &t.MilestoneID, &t.Name, &t.Status, &t.Ordinal, &completedAt); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		if t.CompletedAt, err = parseTimePtr(completedAt); err != nil {
			return nil, fmt.Errorf("parsing task completed_at: %w", err)
		}
		tasks = append(tasks, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if t.Items, err = itemsForTask(q, t.TaskID); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

// GetEntity resolves an ID against every entity table and returns the first
// match as the concrete entity struct. Used by the show command; returns
// ErrNotFound when no table holds the ID.
func (b *Backend) GetEntity(id string) (any, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkAttached(); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, types.ErrInvalidID
	}

	if cp, err := getPath(b.db, id); err == nil {
		return cp, nil
	} else if err != types.ErrNotFound {
		return nil, err
	}
	if m, err := getMilestone(b.db, id); err == nil {
		return m, nil
	} else if err != types.ErrNotFound {
		return nil, err
	}
	if t, err := getTask(b.db, id); err == nil {
		return t, nil
	} else if err != types.ErrNotFound {
		return nil, err
	}

	// Items resolve to their owning task so the caller sees context.
	var taskID string
	err := b.db.QueryRow("SELECT task_id FROM items WHERE item_id = ?", id).Scan(&taskID)
	if err == nil {
		return getTask(b.db, taskID)
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("resolving item %s: %w", id, err)
	}

	project, err := b.getProjectLocked()
	if err == nil && project.ProjectID == id {
		return project, nil
	}

	return nil, types.ErrNotFound
}
