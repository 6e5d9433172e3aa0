// Task definition and item completion.
package sqlite

import (
	"fmt"

	"github.com/mesh-intelligence/waymark/pkg/types"
)

// AddTask appends an externally-defined task (with its checklist items) to a
// milestone. This is the decision input a newly-activated milestone waits
// for. The milestone must not be completed; the project must be mutable.
func (b *Backend) AddTask(milestoneID, name string, items []string) (*types.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkAttached(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, types.ErrInvalidName
	}
	for _, item := range items {
		if item == "" {
			return nil, types.ErrInvalidData
		}
	}

	project, err := b.getProjectLocked()
	if err != nil {
		return nil, err
	}
	if !project.Mutable() {
		return nil, types.ErrInvalidTransition
	}

	milestone, err := getMilestone(b.db, milestoneID)
	if err != nil {
		return nil, err
	}
	if milestone.Status == types.StatusCompleted {
		return nil, types.ErrInvalidTransition
	}

	var nextOrdinal int
	if err := b.db.QueryRow(
		"SELECT COALESCE(MAX(ordinal)+1, 0) FROM tasks WHERE milestone_id = ?", milestoneID,
	).Scan(&nextOrdinal); err != nil {
		return nil, fmt.Errorf("computing task ordinal: %w", err)
	}

	task := &types.Task{
		TaskID:      generateUUID(),
		MilestoneID: milestoneID,
		Name:        name,
		Status:      types.StatusPending,
		Ordinal:     nextOrdinal,
	}

	tx, err := b.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO tasks (task_id, milestone_id, name, status, ordinal, completed_at) VALUES (?, ?, ?, ?, ?, NULL)",
		task.TaskID, task.MilestoneID, task.Name, task.Status, task.Ordinal,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting task: %w", err)
	}

	for i, desc := range items {
		item := types.Item{
			ItemID:      generateUUID(),
			TaskID:      task.TaskID,
			Description: desc,
			Ordinal:     i,
		}
		if _, err := tx.Exec(
			"INSERT INTO items (item_id, task_id, description, done, ordinal) VALUES (?, ?, ?, 0, ?)",
			item.ItemID, item.TaskID, item.Description, item.Ordinal,
		); err != nil {
			return nil, fmt.Errorf("inserting item: %w", err)
		}
		task.Items = append(task.Items, item)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing task: %w", err)
	}

	if err := b.persistTables(types.TableTasks, types.TableItems); err != nil {
		return nil, fmt.Errorf("persisting task JSONL: %w", err)
	}
	return task, nil
}

// CompleteItem marks one checklist item done and recomputes the owning
// task's completability in the same transaction. Completing an item on an
// already-completed task, or an item already done, is a reported no-op.
func (b *Backend) CompleteItem(taskID, itemID string) (*types.ItemCompletion, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkAttached(); err != nil {
		return nil, err
	}

	project, err := b.getProjectLocked()
	if err != nil {
		return nil, err
	}
	if !project.Mutable() {
		return nil, types.ErrInvalidTransition
	}

	task, err := getTask(b.db, taskID)
	if err != nil {
		return nil, err
	}

	found := false
	alreadyDone := false
	for _, it := range task.Items {
		if it.ItemID == itemID {
			found = true
			alreadyDone = it.Done
			break
		}
	}
	if !found {
		return nil, types.ErrNotFound
	}

	if task.Status == types.StatusCompleted || alreadyDone {
		return &types.ItemCompletion{Task: task, AlreadyComplete: true}, nil
	}

	tx, err := b.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE items SET done = 1 WHERE item_id = ?", itemID); err != nil {
		return nil, fmt.Errorf("marking item done: %w", err)
	}

	// A pending task with activity moves to in_progress.
	if task.Status == types.StatusPending {
		if _, err := tx.Exec(
			"UPDATE tasks SET status = ? WHERE task_id = ?",
			types.StatusInProgress, taskID,
		); err != nil {
			return nil, fmt.Errorf("starting task: %w", err)
		}
	}

	updated, err := getTask(tx, taskID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item completion: %w", err)
	}

	if err := b.persistTables(types.TableTasks, types.TableItems); err != nil {
		return nil, fmt.Errorf("persisting item JSONL: %w", err)
	}

	return &types.ItemCompletion{
		Task:            updated,
		TaskCompletable: updated.ItemsDone(),
	}, nil
}
