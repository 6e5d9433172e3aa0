// Plan application: turns an externally-authored blueprint into the
// completion tree.
package sqlite

import (
	"fmt"

	"github.com/mesh-intelligence/waymark/pkg/types"
)

// ApplyPlan creates completion paths, milestones, tasks, and items from a
// validated plan, then activates the first path and its first milestone.
// The plan is applied once: a store that already has completion paths
// rejects a second plan with ErrInvalidTransition. The whole application is
// one transaction.
func (b *Backend) ApplyPlan(plan *types.Plan) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkAttached(); err != nil {
		return err
	}
	if plan == nil {
		return types.ErrInvalidData
	}
	if err := plan.Validate(); err != nil {
		return err
	}

	project, err := b.getProjectLocked()
	if err != nil {
		return err
	}
	if !project.Mutable() {
		return types.ErrInvalidTransition
	}

	var existing int
	if err := b.db.QueryRow("SELECT COUNT(*) FROM completion_paths").Scan(&existing); err != nil {
		return fmt.Errorf("counting paths: %w", err)
	}
	if existing > 0 {
		return types.ErrInvalidTransition
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for pi, planPath := range plan.Paths {
		status := types.StatusPending
		if pi == 0 {
			status = types.StatusInProgress
		}
		pathID := generateUUID()
		_, err := tx.Exec(
			"INSERT INTO completion_paths (path_id, project_id, name, status, ordinal, completed_at) VALUES (?, ?, ?, ?, ?, NULL)",
			pathID, project.ProjectID, planPath.Name, status, pi,
		)
		if err != nil {
			return fmt.Errorf("inserting path %q: %w", planPath.Name, err)
		}

		for mi, planMilestone := range planPath.Milestones {
			msStatus := types.StatusPending
			if pi == 0 && mi == 0 {
				msStatus = types.StatusInProgress
			}
			milestoneID := generateUUID()
			_, err := tx.Exec(
				"INSERT INTO milestones (milestone_id, path_id, name, description, status, ordinal, completed_at) VALUES (?, ?, ?, ?, ?, ?, NULL)",
				milestoneID, pathID, planMilestone.Name, planMilestone.Description, msStatus, mi,
			)
			if err != nil {
				return fmt.Errorf("inserting milestone %q: %w", planMilestone.Name, err)
			}

			for ti, planTask := range planMilestone.Tasks {
				taskID := generateUUID()
				_, err := tx.Exec(
					"INSERT INTO tasks (task_id, milestone_id, name, status, ordinal, completed_at) VALUES (?, ?, ?, ?, ?, NULL)",
					taskID, milestoneID, planTask.Name, types.StatusPending, ti,
				)
				if err != nil {
					return fmt.Errorf("inserting task %q: %w", planTask.Name, err)
				}
				for ii, item := range planTask.Items {
					_, err := tx.Exec(
						"INSERT INTO items (item_id, task_id, description, done, ordinal) VALUES (?, ?, ?, 0, ?)",
						generateUUID(), taskID, item, ii,
					)
					if err != nil {
						return fmt.Errorf("inserting item %q: %w", item, err)
					}
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing plan: %w", err)
	}

	if err := b.persistTables(types.TablePaths, types.TableMilestones, types.TableTasks, types.TableItems); err != nil {
		return fmt.Errorf("persisting plan JSONL: %w", err)
	}
	return nil
}
