package types

import (
	"testing"
	"time"
)

func TestProject_Complete(t *testing.T) {
	p := &Project{Name: "demo", Status: ProjectActive}

	if err := p.Complete(); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if p.Status != ProjectComplete {
		t.Errorf("expected complete, got %s", p.Status)
	}
	if p.Mutable() {
		t.Error("a complete project must not be mutable")
	}

	// Completion is terminal; no second completion.
	if err := p.Complete(); err != ErrInvalidTransition {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestProject_Archive(t *testing.T) {
	p := &Project{Name: "demo", Status: ProjectComplete}

	if err := p.Archive(); err != nil {
		t.Fatalf("Archive failed: %v", err)
	}
	if p.Status != ProjectArchived {
		t.Errorf("expected archived, got %s", p.Status)
	}

	// Idempotent.
	if err := p.Archive(); err != nil {
		t.Errorf("second Archive should succeed, got %v", err)
	}
}

func TestProject_RecordSync(t *testing.T) {
	p := &Project{Name: "demo", Status: ProjectActive}
	at := time.Now().UTC()

	p.RecordSync("abc123", at)

	if p.LastKnownGitHash == nil || *p.LastKnownGitHash != "abc123" {
		t.Errorf("hash not recorded: %v", p.LastKnownGitHash)
	}
	if p.LastGitSync == nil || !p.LastGitSync.Equal(at) {
		t.Errorf("sync time not recorded: %v", p.LastGitSync)
	}
}
