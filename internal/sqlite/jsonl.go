// JSONL persistence for the waymark store. Every mutation rewrites the
// affected table's JSONL file atomically; Attach rebuilds the database from
// the JSONL files.
package sqlite

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/waymark/pkg/types"
)

// tableColumns maps each table to its column list. Order matters for the
// loader: tables with foreign keys load after their referenced tables.
var tableColumns = []struct {
	table   string
	columns []string
}{
	{types.TableProject, []string{"project_id", "name", "status", "last_known_git_hash", "last_git_sync", "created_at", "updated_at"}},
	{types.TablePaths, []string{"path_id", "project_id", "name", "status", "ordinal", "completed_at"}},
	{types.TableMilestones, []string{"milestone_id", "path_id", "name", "description", "status", "ordinal", "completed_at"}},
	{types.TableTasks, []string{"task_id", "milestone_id", "name", "status", "ordinal", "completed_at"}},
	{types.TableItems, []string{"item_id", "task_id", "description", "done", "ordinal"}},
	{types.TableNotes, []string{"note_id", "note_type", "message", "created_at"}},
}

// jsonlPath returns the JSONL file path for a table.
func jsonlPath(dataDir, table string) string {
	return filepath.Join(dataDir, table+".jsonl")
}

// initJSONLFiles creates empty JSONL files for any table missing one, so the
// data directory always exposes the full persisted layout.
func (b *Backend) initJSONLFiles() error {
	for _, m := range tableColumns {
		path := jsonlPath(b.config.DataDir, m.table)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}
	return nil
}

// persistTable snapshots one table from SQLite into its JSONL file. Called
// after a committed mutation; the caller must hold b.mu.
func (b *Backend) persistTable(table string) error {
	var columns []string
	for _, m := range tableColumns {
		if m.table == table {
			columns = m.columns
			break
		}
	}
	if columns == nil {
		return fmt.Errorf("unknown table %q", table)
	}

	query := "SELECT " + joinColumns(columns) + " FROM " + table
	rows, err := b.db.Query(query)
	if err != nil {
		return fmt.Errorf("snapshotting %s: %w", table, err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("scanning %s row: %w", table, err)
		}
		record := make(map[string]any, len(columns))
		for i, col := range columns {
			record[col] = values[i]
		}
		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("encoding %s record: %w", table, err)
		}
		records = append(records, data)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating %s rows: %w", table, err)
	}

	return writeJSONL(jsonlPath(b.config.DataDir, table), records)
}

// persistTables snapshots several tables, stopping at the first failure.
func (b *Backend) persistTables(tables ...string) error {
	for _, t := range tables {
		if err := b.persistTable(t); err != nil {
			return err
		}
	}
	return nil
}

// joinColumns builds a comma-separated column list for a query.
func joinColumns(columns []string) string {
	out := ""
	for i, c := range columns {
		if i > 0 {
			out += ", "
		}
		out += c
	}
	return out
}

// readJSONL reads a JSONL file and returns each non-empty, parseable line as
// a json.RawMessage. Malformed lines are skipped; a later rewrite of the file
// drops them for good.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// writeJSONL atomically writes records to a JSONL file using the temp-file,
// fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	fail := func(step string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%s: %w", step, err)
	}

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			return fail("writing record", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail("writing newline", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fail("flushing buffer", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// loadAllJSONL reads each JSONL file from dataDir and inserts records into
// the corresponding SQLite tables. Loading is transactional: all tables load
// or the database remains empty. Unknown fields in records are ignored for
// forward compatibility.
func loadAllJSONL(db *sql.DB, dataDir string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("PRAGMA foreign_keys = OFF"); err != nil {
		return fmt.Errorf("disabling foreign keys for load: %w", err)
	}

	for _, m := range tableColumns {
		records, err := readJSONL(jsonlPath(dataDir, m.table))
		if err != nil {
			return fmt.Errorf("reading %s.jsonl: %w", m.table, err)
		}
		if len(records) == 0 {
			continue
		}
		if err := insertRecords(tx, m.table, m.columns, records); err != nil {
			return fmt.Errorf("loading %s: %w", m.table, err)
		}
	}

	if _, err := tx.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("re-enabling foreign keys: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// insertRecords inserts parsed JSONL records into a SQLite table. Only the
// listed columns are extracted; extra fields do not cause errors.
func insertRecords(tx *sql.Tx, table string, columns []string, records []json.RawMessage) error {
	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	query := "INSERT INTO " + table + " (" + joinColumns(columns) + ") VALUES (" + joinColumns(placeholders) + ")"

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var fields map[string]any
		if err := json.Unmarshal(rec, &fields); err != nil {
			// Skip records that fail to decode; readJSONL already
			// filtered invalid JSON, so this is unexpected.
			continue
		}
		values := make([]any, len(columns))
		for i, col := range columns {
			values[i] = fields[col]
		}
		if _, err := stmt.Exec(values...); err != nil {
			return fmt.Errorf("inserting into %s: %w", table, err)
		}
	}
	return nil
}
