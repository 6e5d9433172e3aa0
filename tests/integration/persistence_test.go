// JSONL persistence: a second backend attached to the same data directory
// rebuilds identical state from the files alone.
package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/waymark/internal/sqlite"
	"github.com/mesh-intelligence/waymark/pkg/types"
)

func TestPersistence_ReattachRebuildsState(t *testing.T) {
	b, dir := setupProject(t)

	paths, err := b.Paths()
	require.NoError(t, err)
	storage := milestoneByName(t, b, paths[0].PathID, "Storage Layer")
	drainMilestone(t, b, storage.MilestoneID)

	_, err = b.AppendNote(types.NoteAudit, "first milestone down")
	require.NoError(t, err)
	require.NoError(t, b.Detach())

	// The database file is disposable; only the JSONL files carry state.
	require.NoError(t, os.Remove(filepath.Join(dir, "waymark.db")))

	b2 := sqlite.NewBackend()
	require.NoError(t, b2.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	t.Cleanup(func() { b2.Detach() })

	project, err := b2.GetProject()
	require.NoError(t, err)
	assert.Equal(t, "integration", project.Name)

	restored := milestoneByName(t, b2, paths[0].PathID, "Storage Layer")
	assert.Equal(t, types.StatusCompleted, restored.Status)
	require.NotNil(t, restored.CompletedAt)

	tasks, err := b2.TasksForMilestone(restored.MilestoneID)
	require.NoError(t, err)
	for _, task := range tasks {
		assert.Equal(t, types.StatusCompleted, task.Status)
		for _, item := range task.Items {
			assert.True(t, item.Done)
		}
	}

	notes, err := b2.Notes(types.NoteAudit)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "first milestone down", notes[0].Message)
}

func TestPersistence_MalformedLinesSkipped(t *testing.T) {
	b, dir := setupProject(t)
	require.NoError(t, b.Detach())

	notesPath := filepath.Join(dir, "notes.jsonl")
	require.NoError(t, os.WriteFile(notesPath, []byte("{not json}\n"), 0o644))

	b2 := sqlite.NewBackend()
	require.NoError(t, b2.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	t.Cleanup(func() { b2.Detach() })

	notes, err := b2.Notes("")
	require.NoError(t, err)
	assert.Empty(t, notes)

	// The rest of the tree survives the bad file untouched.
	paths, err := b2.Paths()
	require.NoError(t, err)
	assert.Len(t, paths, 2)
}
