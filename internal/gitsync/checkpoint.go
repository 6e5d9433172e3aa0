// Package gitsync implements the revision checkpoint: it compares the
// tracked repository's current HEAD hash against the last hash the store
// observed and records the new baseline. It caches nothing else; branch
// names and working-tree state are always re-derived from git directly, so
// the stored hash is the only fact that can ever go stale.
package gitsync

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/mesh-intelligence/waymark/pkg/types"
)

// Defaults for the git subprocess call and the store write retry policy.
const (
	DefaultTimeout = 500 * time.Millisecond

	maxStoreAttempts = 3
	baseBackoff      = 50 * time.Millisecond
)

// Store is the slice of the project store the checkpoint needs.
type Store interface {
	GetProject() (*types.Project, error)
	UpdateGitSync(hash string, at time.Time) (*types.Project, error)
	AppendNote(noteType, message string) (*types.Note, error)
}

// RevisionFunc queries the current revision hash of a repository.
type RevisionFunc func(ctx context.Context, repoDir string) (string, error)

// Checkpoint compares repository revisions against the store's recorded
// baseline.
type Checkpoint struct {
	store   Store
	repoDir string
	timeout time.Duration
	// revision is swappable for tests.
	revision RevisionFunc
	// sleep is swappable for tests so backoff does not slow the suite.
	sleep func(time.Duration)
}

// New creates a checkpoint for the repository at repoDir. A zero timeout
// selects DefaultTimeout.
func New(store Store, repoDir string, timeout time.Duration) *Checkpoint {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Checkpoint{
		store:    store,
		repoDir:  repoDir,
		timeout:  timeout,
		revision: headRevision,
		sleep:    time.Sleep,
	}
}

// Sync runs one checkpoint: query the current revision, compare against the
// stored hash, and record the new baseline.
//
// Outcomes:
//   - no stored hash: SyncInitialized, the current hash becomes the baseline;
//   - hashes equal: SyncUnchanged, only the sync timestamp is refreshed;
//   - hashes differ: SyncChanged with both hashes; a git_sync note records
//     the transition for downstream change analysis.
//
// When the revision query fails, or the store write keeps failing after
// bounded backoff, Sync returns ErrSyncUnavailable and the stored hash is
// untouched; callers keep operating on the last-synced baseline.
func (c *Checkpoint) Sync(ctx context.Context) (*types.SyncResult, error) {
	queryCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	hash, err := c.revision(queryCtx, c.repoDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrSyncUnavailable, err)
	}

	project, err := c.store.GetProject()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrSyncUnavailable, err)
	}

	now := time.Now().UTC()
	result := &types.SyncResult{NewHash: hash, SyncedAt: now}

	switch {
	case project.LastKnownGitHash == nil:
		result.Kind = types.SyncInitialized
	case *project.LastKnownGitHash == hash:
		result.Kind = types.SyncUnchanged
	default:
		result.Kind = types.SyncChanged
		result.OldHash = *project.LastKnownGitHash
	}

	if err := c.record(hash, now); err != nil {
		return nil, err
	}

	if result.Kind == types.SyncChanged {
		// Best effort: the note is the hand-off to change analysis, but a
		// failed append does not invalidate the sync itself.
		_, _ = c.store.AppendNote(types.NoteGitSync,
			fmt.Sprintf("external change detected: %s -> %s", result.OldHash, result.NewHash))
	}

	return result, nil
}

// record writes the new baseline with bounded exponential backoff.
func (c *Checkpoint) record(hash string, at time.Time) error {
	backoff := baseBackoff
	var lastErr error
	for attempt := 0; attempt < maxStoreAttempts; attempt++ {
		if attempt > 0 {
			c.sleep(backoff)
			backoff *= 2
		}
		if _, lastErr = c.store.UpdateGitSync(hash, at); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: recording hash: %v", types.ErrSyncUnavailable, lastErr)
}

// headRevision asks git for the current HEAD hash. git is invoked as a local
// subprocess; there is no network involved and the call is bounded by the
// caller's context.
func headRevision(ctx context.Context, repoDir string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "HEAD")
	if repoDir != "" {
		cmd.Dir = repoDir
	}
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("git rev-parse: %s: %w", msg, err)
		}
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	hash := strings.TrimSpace(out.String())
	if hash == "" {
		return "", fmt.Errorf("git rev-parse returned no output")
	}
	return hash, nil
}
