// Append-only notes: the audit surface peer tooling writes through.
package sqlite

import (
	"fmt"
	"time"

	"github.com/mesh-intelligence/waymark/pkg/types"
)

// AppendNote adds one note to the log. Notes are append-only; there is no
// update or delete. Valid regardless of project status so audits continue
// after completion.
func (b *Backend) AppendNote(noteType, message string) (*types.Note, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkAttached(); err != nil {
		return nil, err
	}
	if noteType == "" || message == "" {
		return nil, types.ErrInvalidData
	}

	note := &types.Note{
		NoteID:    generateUUID(),
		NoteType:  noteType,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}

	_, err := b.db.Exec(
		"INSERT INTO notes (note_id, note_type, message, created_at) VALUES (?, ?, ?, ?)",
		note.NoteID, note.NoteType, note.Message, timeString(note.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting note: %w", err)
	}

	if err := b.persistTable(types.TableNotes); err != nil {
		return nil, fmt.Errorf("persisting notes.jsonl: %w", err)
	}
	return note, nil
}

// Notes returns notes in creation order. An empty noteType returns all notes;
// otherwise only notes of that type.
func (b *Backend) Notes(noteType string) ([]*types.Note, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkAttached(); err != nil {
		return nil, err
	}

	query := "SELECT note_id, note_type, message, created_at FROM notes"
	args := []any{}
	if noteType != "" {
		query += " WHERE note_type = ?"
		args = append(args, noteType)
	}
	query += " ORDER BY created_at, note_id"

	rows, err := b.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	defer rows.Close()

	var notes []*types.Note
	for rows.Next() {
		var (
			n         types.Note
			createdAt string
		)
		if err := rows.Scan(&n.NoteID, &n.NoteType, &n.Message, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		if n.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parsing note created_at: %w", err)
		}
		notes = append(notes, &n)
	}
	return notes, rows.Err()
}
