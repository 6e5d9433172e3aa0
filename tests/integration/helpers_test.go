// Package integration exercises the full waymark stack: store, rollup,
// JSONL persistence, and the git checkpoint, against real temp directories.
package integration

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/waymark/internal/sqlite"
	"github.com/mesh-intelligence/waymark/pkg/types"
)

// planYAML is the blueprint shared by the lifecycle tests: two completion
// paths, the first with two milestones.
const planYAML = `
paths:
  - name: Core Engine
    milestones:
      - name: Storage Layer
        tasks:
          - name: Schema and migrations
            items:
              - Define tables
              - Write indexes
          - name: Persistence roundtrip
      - name: Rollup Engine
        tasks:
          - name: Completion cascade
  - name: Release
    milestones:
      - name: Packaging
`

// setupBackend attaches a backend to an isolated temp directory and
// registers detach on cleanup.
func setupBackend(t *testing.T) (*sqlite.Backend, string) {
	t.Helper()
	dir := t.TempDir()
	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	t.Cleanup(func() { b.Detach() })
	return b, dir
}

// setupProject attaches a backend, initializes a project, and applies the
// shared plan.
func setupProject(t *testing.T) (*sqlite.Backend, string) {
	t.Helper()
	b, dir := setupBackend(t)
	_, err := b.InitProject("integration")
	require.NoError(t, err)

	plan, err := types.ParsePlan([]byte(planYAML))
	require.NoError(t, err)
	require.NoError(t, b.ApplyPlan(plan))
	return b, dir
}

// drainMilestone completes every task under the milestone, items first,
// returning the final completion result.
func drainMilestone(t *testing.T, b *sqlite.Backend, milestoneID string) *types.TaskCompletion {
	t.Helper()
	tasks, err := b.TasksForMilestone(milestoneID)
	require.NoError(t, err)

	var last *types.TaskCompletion
	for _, task := range tasks {
		for _, item := range task.Items {
			_, err := b.CompleteItem(task.TaskID, item.ItemID)
			require.NoError(t, err)
		}
		last, err = b.CompleteTask(task.TaskID, false)
		require.NoError(t, err)
	}
	return last
}

// milestoneByName finds a milestone in a path by name.
func milestoneByName(t *testing.T, b *sqlite.Backend, pathID, name string) *types.Milestone {
	t.Helper()
	milestones, err := b.MilestonesForPath(pathID)
	require.NoError(t, err)
	for _, m := range milestones {
		if m.Name == name {
			return m
		}
	}
	t.Fatalf("milestone %q not found in path %s", name, pathID)
	return nil
}
