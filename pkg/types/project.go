package types

import "time"

// Project is the singleton root record of the store. Exactly one project row
// exists per data directory. The two git fields are the only cached
// version-control facts; branch and working-tree state are always re-derived
// from git directly.
type Project struct {
	ProjectID        string     `json:"project_id"`
	Name             string     `json:"name"`
	Status           string     `json:"status"`
	LastKnownGitHash *string    `json:"last_known_git_hash"`
	LastGitSync      *time.Time `json:"last_git_sync"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Mutable reports whether the completion tree may still change. A complete or
// archived project accepts only reads and Archive.
func (p *Project) Mutable() bool {
	return p.Status == ProjectActive
}

// Complete marks the project finished. The current status must be "active";
// otherwise ErrInvalidTransition is returned. Callers must have verified that
// every completion path is completed; the store enforces this inside the
// rollup transaction.
func (p *Project) Complete() error {
	if p.Status != ProjectActive {
		return ErrInvalidTransition
	}
	p.Status = ProjectComplete
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Archive marks the project archived. Valid from any status; archival is the
// only terminal operation and there is no way back. Idempotent.
func (p *Project) Archive() error {
	if !validProjectStatuses[p.Status] {
		return ErrInvalidState
	}
	p.Status = ProjectArchived
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// RecordSync sets the last observed revision hash and sync time.
func (p *Project) RecordSync(hash string, at time.Time) {
	p.LastKnownGitHash = &hash
	p.LastGitSync = &at
	p.UpdatedAt = at
}
