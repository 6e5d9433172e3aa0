package gitsync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mesh-intelligence/waymark/pkg/types"
)

// fakeStore implements Store in memory.
type fakeStore struct {
	project *types.Project
	notes   []*types.Note

	// failWrites makes the first N UpdateGitSync calls fail.
	failWrites int
	writeCalls int
}

func (f *fakeStore) GetProject() (*types.Project, error) {
	if f.project == nil {
		return nil, types.ErrNotInitialized
	}
	cp := *f.project
	return &cp, nil
}

func (f *fakeStore) UpdateGitSync(hash string, at time.Time) (*types.Project, error) {
	f.writeCalls++
	if f.writeCalls <= f.failWrites {
		return nil, errors.New("database is locked")
	}
	f.project.RecordSync(hash, at)
	cp := *f.project
	return &cp, nil
}

func (f *fakeStore) AppendNote(noteType, message string) (*types.Note, error) {
	n := &types.Note{NoteType: noteType, Message: message, CreatedAt: time.Now()}
	f.notes = append(f.notes, n)
	return n, nil
}

// newCheckpoint wires a checkpoint with a fixed revision and no real sleeps.
func newCheckpoint(store Store, hash string, revErr error) *Checkpoint {
	c := New(store, "", 0)
	c.revision = func(ctx context.Context, repoDir string) (string, error) {
		return hash, revErr
	}
	c.sleep = func(time.Duration) {}
	return c
}

func TestSync_Initialized(t *testing.T) {
	store := &fakeStore{project: &types.Project{ProjectID: "p", Status: types.ProjectActive}}
	c := newCheckpoint(store, "abc123", nil)

	res, err := c.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if res.Kind != types.SyncInitialized {
		t.Errorf("expected initialized, got %s", res.Kind)
	}
	if res.NewHash != "abc123" || res.OldHash != "" {
		t.Errorf("unexpected hashes: %+v", res)
	}
	if store.project.LastKnownGitHash == nil || *store.project.LastKnownGitHash != "abc123" {
		t.Error("baseline not recorded")
	}
}

func TestSync_Unchanged(t *testing.T) {
	store := &fakeStore{project: &types.Project{ProjectID: "p", Status: types.ProjectActive}}
	c := newCheckpoint(store, "abc123", nil)

	if _, err := c.Sync(context.Background()); err != nil {
		t.Fatal(err)
	}
	firstSync := *store.project.LastGitSync

	// Idempotent: unchanged twice in a row, hash untouched.
	for i := 0; i < 2; i++ {
		res, err := c.Sync(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if res.Kind != types.SyncUnchanged {
			t.Errorf("call %d: expected unchanged, got %s", i, res.Kind)
		}
	}
	if *store.project.LastKnownGitHash != "abc123" {
		t.Error("hash must not change on unchanged sync")
	}
	if !store.project.LastGitSync.After(firstSync) && !store.project.LastGitSync.Equal(firstSync) {
		t.Error("sync timestamp must be refreshed")
	}
	if len(store.notes) != 0 {
		t.Error("unchanged sync must not append notes")
	}
}

func TestSync_Changed(t *testing.T) {
	store := &fakeStore{project: &types.Project{ProjectID: "p", Status: types.ProjectActive}}
	c := newCheckpoint(store, "abc123", nil)
	if _, err := c.Sync(context.Background()); err != nil {
		t.Fatal(err)
	}

	// External commit moved HEAD.
	c.revision = func(context.Context, string) (string, error) { return "def456", nil }

	res, err := c.Sync(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Kind != types.SyncChanged {
		t.Fatalf("expected changed, got %s", res.Kind)
	}
	if res.OldHash != "abc123" || res.NewHash != "def456" {
		t.Errorf("unexpected hashes: %+v", res)
	}
	if *store.project.LastKnownGitHash != "def456" {
		t.Error("new baseline not recorded")
	}

	// The transition is handed to change analysis via a note.
	if len(store.notes) != 1 || store.notes[0].NoteType != types.NoteGitSync {
		t.Fatalf("expected one git_sync note, got %+v", store.notes)
	}
}

func TestSync_RevisionUnavailable(t *testing.T) {
	store := &fakeStore{project: &types.Project{
		ProjectID:        "p",
		Status:           types.ProjectActive,
		LastKnownGitHash: strPtr("abc123"),
	}}
	c := newCheckpoint(store, "", errors.New("not a git repository"))

	_, err := c.Sync(context.Background())
	if !errors.Is(err, types.ErrSyncUnavailable) {
		t.Fatalf("expected ErrSyncUnavailable, got %v", err)
	}
	// Stored hash untouched.
	if *store.project.LastKnownGitHash != "abc123" {
		t.Error("stored hash must survive a failed sync")
	}
}

func TestSync_StoreWriteRetries(t *testing.T) {
	store := &fakeStore{
		project:    &types.Project{ProjectID: "p", Status: types.ProjectActive},
		failWrites: 2,
	}
	c := newCheckpoint(store, "abc123", nil)

	res, err := c.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync should succeed within the retry limit: %v", err)
	}
	if res.Kind != types.SyncInitialized {
		t.Errorf("expected initialized, got %s", res.Kind)
	}
	if store.writeCalls != 3 {
		t.Errorf("expected 3 write attempts, got %d", store.writeCalls)
	}
}

func TestSync_StoreWriteExhausted(t *testing.T) {
	store := &fakeStore{
		project:    &types.Project{ProjectID: "p", Status: types.ProjectActive},
		failWrites: maxStoreAttempts,
	}
	c := newCheckpoint(store, "abc123", nil)

	_, err := c.Sync(context.Background())
	if !errors.Is(err, types.ErrSyncUnavailable) {
		t.Fatalf("expected ErrSyncUnavailable, got %v", err)
	}
	if store.project.LastKnownGitHash != nil {
		t.Error("no baseline must be recorded after exhausted retries")
	}
}

func strPtr(s string) *string { return &s }
