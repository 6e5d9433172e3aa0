// Completion rollup: task → milestone → completion path → project, applied
// bottom-up in a single transaction per completion event. Concurrent readers
// never observe a half-applied rollup; siblings completing back-to-back each
// see the fully-committed result of the previous event.
package sqlite

import (
	"fmt"

	"github.com/mesh-intelligence/waymark/pkg/types"
)

// rollupTestHook, when set, is invoked inside the rollup transaction after
// the milestone update. Tests use it to inject mid-rollup failures.
var rollupTestHook func() error

// CompleteTask marks the task complete and rolls completion up the tree.
// All items must be done unless override is set. Completing an
// already-completed task is a reported no-op. A rollup that cannot commit is
// retried once; after that the call fails with ErrRollupFailed and the store
// is guaranteed unchanged.
func (b *Backend) CompleteTask(taskID string, override bool) (*types.TaskCompletion, error) {
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
	if task.Status == types.StatusCompleted {
		return &types.TaskCompletion{Task: task, AlreadyComplete: true}, nil
	}

	// Validate and stamp the completion in memory before touching the store.
	if err := task.Complete(override); err != nil {
		return nil, err
	}

	result, err := b.runRollup(project, task)
	if err != nil {
		// One retry for the whole transaction, then fail closed.
		result, err = b.runRollup(project, task)
		if err != nil {
			return nil, fmt.Errorf("%w: task %s: %v", types.ErrRollupFailed, taskID, err)
		}
	}

	if err := b.persistTables(
		types.TableItems, types.TableTasks, types.TableMilestones,
		types.TablePaths, types.TableProject,
	); err != nil {
		return nil, fmt.Errorf("persisting rollup JSONL: %w", err)
	}
	return result, nil
}

// runRollup applies one completion event in a single transaction. Any error
// aborts the transaction and leaves the store as it was. The project struct
// is only written back on commit so a failed attempt can be retried cleanly.
func (b *Backend) runRollup(project *types.Project, task *types.Task) (*types.TaskCompletion, error) {
	proj := *project

	tx, err := b.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning rollup: %w", err)
	}
	defer tx.Rollback()

	result := &types.TaskCompletion{Task: task}

	// Task row and, under override, any items that were force-completed.
	if _, err := tx.Exec(
		"UPDATE tasks SET status = ?, completed_at = ? WHERE task_id = ?",
		task.Status, timePtrString(task.CompletedAt), task.TaskID,
	); err != nil {
		return nil, fmt.Errorf("updating task: %w", err)
	}
	if _, err := tx.Exec("UPDATE items SET done = 1 WHERE task_id = ?", task.TaskID); err != nil {
		return nil, fmt.Errorf("updating items: %w", err)
	}

	milestone, err := getMilestone(tx, task.MilestoneID)
	if err != nil {
		return nil, err
	}

	var remaining int
	if err := tx.QueryRow(
		"SELECT COUNT(*) FROM tasks WHERE milestone_id = ? AND status != ? AND task_id != ?",
		milestone.MilestoneID, types.StatusCompleted, task.TaskID,
	).Scan(&remaining); err != nil {
		return nil, fmt.Errorf("counting remaining tasks: %w", err)
	}
	if remaining > 0 {
		return result, commitRollup(tx)
	}

	// Milestone fully complete. A milestone whose tasks finished before it
	// was ever focused still completes; activate first so the transition
	// stays legal.
	if milestone.Status == types.StatusPending {
		if err := milestone.Activate(); err != nil {
			return nil, err
		}
	}
	if err := milestone.Complete(); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(
		"UPDATE milestones SET status = ?, completed_at = ? WHERE milestone_id = ?",
		milestone.Status, timePtrString(milestone.CompletedAt), milestone.MilestoneID,
	); err != nil {
		return nil, fmt.Errorf("updating milestone: %w", err)
	}
	result.MilestoneCompleted = true

	if rollupTestHook != nil {
		if err := rollupTestHook(); err != nil {
			return nil, err
		}
	}

	if err := tx.QueryRow(
		"SELECT COUNT(*) FROM milestones WHERE path_id = ? AND status != ?",
		milestone.PathID, types.StatusCompleted,
	).Scan(&remaining); err != nil {
		return nil, fmt.Errorf("counting remaining milestones: %w", err)
	}
	if remaining > 0 {
		// Other milestones remain on this path; the rollup stops here.
		return result, commitRollup(tx)
	}

	path, err := getPath(tx, milestone.PathID)
	if err != nil {
		return nil, err
	}
	if path.Status == types.StatusPending {
		if err := path.Activate(); err != nil {
			return nil, err
		}
	}
	if err := path.Complete(); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(
		"UPDATE completion_paths SET status = ?, completed_at = ? WHERE path_id = ?",
		path.Status, timePtrString(path.CompletedAt), path.PathID,
	); err != nil {
		return nil, fmt.Errorf("updating path: %w", err)
	}
	result.PathCompleted = true

	if err := tx.QueryRow(
		"SELECT COUNT(*) FROM completion_paths WHERE status != ?",
		types.StatusCompleted,
	).Scan(&remaining); err != nil {
		return nil, fmt.Errorf("counting remaining paths: %w", err)
	}

	if remaining == 0 {
		// Every path is complete; the project is done.
		if err := proj.Complete(); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(
			"UPDATE project SET status = ?, updated_at = ? WHERE project_id = ?",
			proj.Status, timeString(proj.UpdatedAt), proj.ProjectID,
		); err != nil {
			return nil, fmt.Errorf("updating project: %w", err)
		}
		if err := commitRollup(tx); err != nil {
			return nil, err
		}
		*project = proj
		result.ProjectCompleted = true
		return result, nil
	}

	// Advance focus: activate the next path and its next pending milestone.
	// That milestone has no tasks yet; the caller must supply definitions.
	next, err := b.advanceFocus(tx)
	if err != nil {
		return nil, err
	}
	result.NextMilestone = next
	return result, commitRollup(tx)
}

// advanceFocus activates the lowest-ordinal non-completed path and its
// lowest-ordinal pending milestone. Returns the activated milestone, or nil
// when the next path has no pending milestone left to focus.
func (b *Backend) advanceFocus(tx querier) (*types.Milestone, error) {
	var pathID, pathStatus string
	err := tx.QueryRow(
		"SELECT path_id, status FROM completion_paths WHERE status != ? ORDER BY ordinal LIMIT 1",
		types.StatusCompleted,
	).Scan(&pathID, &pathStatus)
	if err != nil {
		return nil, fmt.Errorf("selecting next path: %w", err)
	}

	if pathStatus == types.StatusPending {
		if _, err := tx.Exec(
			"UPDATE completion_paths SET status = ? WHERE path_id = ?",
			types.StatusInProgress, pathID,
		); err != nil {
			return nil, fmt.Errorf("activating path: %w", err)
		}
	}

	milestones, err := milestonesForPath(tx, pathID)
	if err != nil {
		return nil, err
	}
	for _, m := range milestones {
		if m.Status == types.StatusPending {
			if err := m.Activate(); err != nil {
				return nil, err
			}
			if _, err := tx.Exec(
				"UPDATE milestones SET status = ? WHERE milestone_id = ?",
				m.Status, m.MilestoneID,
			); err != nil {
				return nil, fmt.Errorf("activating milestone: %w", err)
			}
			return m, nil
		}
	}
	return nil, nil
}

// commitRollup commits the rollup transaction with wrapped context.
func commitRollup(tx interface{ Commit() error }) error {
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing rollup: %w", err)
	}
	return nil
}
