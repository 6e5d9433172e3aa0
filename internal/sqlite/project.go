// Project singleton operations: initialization, retrieval, git sync fields,
// and archival.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mesh-intelligence/waymark/pkg/types"
)

// InitProject creates the singleton project row. Returns
// ErrAlreadyInitialized if a project already exists.
func (b *Backend) InitProject(name string) (*types.Project, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkAttached(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, types.ErrInvalidName
	}

	if _, err := b.getProjectLocked(); err == nil {
		return nil, types.ErrAlreadyInitialized
	} else if err != types.ErrNotInitialized {
		return nil, err
	}

	now := time.Now().UTC()
	project := &types.Project{
		ProjectID: generateUUID(),
		Name:      name,
		Status:    types.ProjectActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := b.db.Exec(
		"INSERT INTO project (project_id, name, status, last_known_git_hash, last_git_sync, created_at, updated_at) VALUES (?, ?, ?, NULL, NULL, ?, ?)",
		project.ProjectID, project.Name, project.Status,
		timeString(project.CreatedAt), timeString(project.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting project: %w", err)
	}

	if err := b.persistTable(types.TableProject); err != nil {
		return nil, fmt.Errorf("persisting project.jsonl: %w", err)
	}
	return project, nil
}

// GetProject returns the singleton project row.
// Returns ErrNotInitialized when no project exists.
func (b *Backend) GetProject() (*types.Project, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkAttached(); err != nil {
		return nil, err
	}
	return b.getProjectLocked()
}

// getProjectLocked reads the project row. The caller must hold b.mu.
func (b *Backend) getProjectLocked() (*types.Project, error) {
	row := b.db.QueryRow(
		"SELECT project_id, name, status, last_known_git_hash, last_git_sync, created_at, updated_at FROM project LIMIT 1",
	)
	return hydrateProject(row)
}

// hydrateProject scans a project row into a types.Project.
func hydrateProject(row *sql.Row) (*types.Project, error) {
	var (
		p         types.Project
		hash      sql.NullString
		syncAt    sql.NullString
		createdAt string
		updatedAt string
	)
	err := row.Scan(&p.ProjectID, &p.Name, &p.Status, &hash, &syncAt, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotInitialized
	}
	if err != nil {
		return nil, fmt.Errorf("scanning project: %w", err)
	}

	if hash.Valid {
		h := hash.String
		p.LastKnownGitHash = &h
	}
	if p.LastGitSync, err = parseTimePtr(syncAt); err != nil {
		return nil, fmt.Errorf("parsing last_git_sync: %w", err)
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &p, nil
}

// UpdateGitSync records the observed revision hash and sync time on the
// project row. Used by the revision checkpoint; valid in any project status
// since syncing is a read-side concern, not a tree mutation.
func (b *Backend) UpdateGitSync(hash string, at time.Time) (*types.Project, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkAttached(); err != nil {
		return nil, err
	}

	project, err := b.getProjectLocked()
	if err != nil {
		return nil, err
	}

	project.RecordSync(hash, at.UTC())

	_, err = b.db.Exec(
		"UPDATE project SET last_known_git_hash = ?, last_git_sync = ?, updated_at = ? WHERE project_id = ?",
		hash, timeString(at), timeString(project.UpdatedAt), project.ProjectID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating git sync state: %w", err)
	}

	if err := b.persistTable(types.TableProject); err != nil {
		return nil, fmt.Errorf("persisting project.jsonl: %w", err)
	}
	return project, nil
}

// ArchiveProject marks the project archived. Archival is terminal and
// idempotent; it is the only mutation accepted on a complete project.
func (b *Backend) ArchiveProject() (*types.Project, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkAttached(); err != nil {
		return nil, err
	}

	project, err := b.getProjectLocked()
	if err != nil {
		return nil, err
	}

	if err := project.Archive(); err != nil {
		return nil, err
	}

	_, err = b.db.Exec(
		"UPDATE project SET status = ?, updated_at = ? WHERE project_id = ?",
		project.Status, timeString(project.UpdatedAt), project.ProjectID,
	)
	if err != nil {
		return nil, fmt.Errorf("archiving project: %w", err)
	}

	if err := b.persistTable(types.TableProject); err != nil {
		return nil, fmt.Errorf("persisting project.jsonl: %w", err)
	}
	return project, nil
}
