// Full project lifecycle: init, plan, work, rollup, archive.
package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/waymark/pkg/types"
)

func TestLifecycle_PlanToProjectCompletion(t *testing.T) {
	b, _ := setupProject(t)

	paths, err := b.Paths()
	require.NoError(t, err)
	require.Len(t, paths, 2)
	core, release := paths[0], paths[1]
	assert.Equal(t, types.StatusInProgress, core.Status)
	assert.Equal(t, types.StatusPending, release.Status)

	// Work through the first milestone. The path stays open because the
	// second milestone remains.
	storage := milestoneByName(t, b, core.PathID, "Storage Layer")
	result := drainMilestone(t, b, storage.MilestoneID)
	assert.True(t, result.MilestoneCompleted)
	assert.False(t, result.PathCompleted)

	// Second milestone finishes the path and advances focus to Release.
	rollup := milestoneByName(t, b, core.PathID, "Rollup Engine")
	result = drainMilestone(t, b, rollup.MilestoneID)
	assert.True(t, result.PathCompleted)
	assert.False(t, result.ProjectCompleted)
	require.NotNil(t, result.NextMilestone)
	assert.Equal(t, "Packaging", result.NextMilestone.Name)

	// The advanced milestone has no tasks yet; they arrive later.
	_, err = b.NextPending(result.NextMilestone.MilestoneID)
	assert.ErrorIs(t, err, types.ErrNoPending)

	// Define and finish the release work.
	task, err := b.AddTask(result.NextMilestone.MilestoneID, "Tag and publish", []string{"Tag release"})
	require.NoError(t, err)
	_, err = b.CompleteItem(task.TaskID, task.Items[0].ItemID)
	require.NoError(t, err)
	result, err = b.CompleteTask(task.TaskID, false)
	require.NoError(t, err)
	assert.True(t, result.ProjectCompleted)

	project, err := b.GetProject()
	require.NoError(t, err)
	assert.Equal(t, types.ProjectComplete, project.Status)
}

func TestLifecycle_UndoneItemsBlockCompletion(t *testing.T) {
	b, _ := setupProject(t)

	paths, err := b.Paths()
	require.NoError(t, err)
	storage := milestoneByName(t, b, paths[0].PathID, "Storage Layer")
	tasks, err := b.TasksForMilestone(storage.MilestoneID)
	require.NoError(t, err)
	withItems := tasks[0]
	require.NotEmpty(t, withItems.Items)

	_, err = b.CompleteTask(withItems.TaskID, false)
	assert.ErrorIs(t, err, types.ErrInvalidTransition)

	// Force completion marks the remaining items done.
	result, err := b.CompleteTask(withItems.TaskID, true)
	require.NoError(t, err)
	assert.Equal(t, types.StatusCompleted, result.Task.Status)
	for _, item := range result.Task.Items {
		assert.True(t, item.Done)
	}
}

func TestLifecycle_ArchiveFreezesProject(t *testing.T) {
	b, _ := setupProject(t)

	project, err := b.ArchiveProject()
	require.NoError(t, err)
	assert.Equal(t, types.ProjectArchived, project.Status)

	paths, err := b.Paths()
	require.NoError(t, err)
	storage := milestoneByName(t, b, paths[0].PathID, "Storage Layer")
	tasks, err := b.TasksForMilestone(storage.MilestoneID)
	require.NoError(t, err)

	_, err = b.CompleteTask(tasks[0].TaskID, true)
	assert.ErrorIs(t, err, types.ErrInvalidTransition)

	_, err = b.AddTask(storage.MilestoneID, "late arrival", nil)
	assert.ErrorIs(t, err, types.ErrInvalidTransition)

	// Notes stay open for audit trails.
	_, err = b.AppendNote(types.NoteAudit, "archived for the quarter")
	assert.NoError(t, err)
}
