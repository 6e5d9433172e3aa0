package types

import "time"

// Conventional note types written by waymark itself. Peer tooling may append
// notes with any type string.
const (
	NoteGitSync = "git_sync"
	NoteAudit   = "audit"
)

// Note is an append-only audit log entry. Notes are never updated or deleted.
type Note struct {
	NoteID    string    `json:"note_id"`
	NoteType  string    `json:"note_type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
