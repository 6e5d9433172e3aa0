// Deterministic "next" selection: lowest-ordinal pending child of a parent.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/waymark/pkg/types"
)

// NextPending returns the lowest-ordinal pending child of the given parent:
// path for a project, milestone for a path, task for a milestone, undone
// item for a task. Ties are impossible (ordinals are assigned sequentially);
// repeated calls with no intervening mutation return the same child. Returns
// ErrNoPending when the parent has no pending children, ErrNotFound when the
// ID matches no entity.
func (b *Backend) NextPending(parentID string) (any, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkAttached(); err != nil {
		return nil, err
	}
	if parentID == "" {
		return nil, types.ErrInvalidID
	}

	project, err := b.getProjectLocked()
	if err != nil {
		return nil, err
	}
	if project.ProjectID == parentID {
		return b.nextPendingPath()
	}

	if _, err := getPath(b.db, parentID); err == nil {
		return b.nextPendingMilestone(parentID)
	} else if err != types.ErrNotFound {
		return nil, err
	}

	if _, err := getMilestone(b.db, parentID); err == nil {
		return b.nextPendingTask(parentID)
	} else if err != types.ErrNotFound {
		return nil, err
	}

	if task, err := getTask(b.db, parentID); err == nil {
		for _, it := range task.Items {
			if !it.Done {
				item := it
				return &item, nil
			}
		}
		return nil, types.ErrNoPending
	} else if err != types.ErrNotFound {
		return nil, err
	}

	return nil, types.ErrNotFound
}

func (b *Backend) nextPendingPath() (*types.CompletionPath, error) {
	cp, err := scanPath(b.db.QueryRow(
		"SELECT "+pathColumns+" FROM completion_paths WHERE status = ? ORDER BY ordinal LIMIT 1",
		types.StatusPending,
	))
	if err == sql.ErrNoRows {
		return nil, types.ErrNoPending
	}
	if err != nil {
		return nil, fmt.Errorf("selecting next pending path: %w", err)
	}
	return cp, nil
}

func (b *Backend) nextPendingMilestone(pathID string) (*types.Milestone, error) {
	milestones, err := milestonesForPath(b.db, pathID)
	if err != nil {
		return nil, err
	}
	for _, m := range milestones {
		if m.Status == types.StatusPending {
			return m, nil
		}
	}
	return nil, types.ErrNoPending
}

func (b *Backend) nextPendingTask(milestoneID string) (*types.Task, error) {
	tasks, err := tasksForMilestone(b.db, milestoneID)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if t.Status == types.StatusPending {
			return t, nil
		}
	}
	return nil, types.ErrNoPending
}
