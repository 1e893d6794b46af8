// Package history records focus movements in a per-vault SQLite
// journal. The journal is strictly best-effort: if the database cannot
// be opened the rest of the program runs without it, and a nil *Journal
// is safe to call.
package history

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// FileName is the journal database file inside the vault state dir.
const FileName = "history.db"

// Journal appends focus events to a SQLite database.
type Journal struct {
	db   *sql.DB
	path string
}

// Open creates or opens the journal in stateDir. The schema is applied
// on every open so older databases pick up new columns via IF NOT
// EXISTS semantics.
func Open(stateDir string) (*Journal, error) {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir: %w", err)
	}

	path := filepath.Join(stateDir, FileName)
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open journal: %w", err)
	}

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			// Non-fatal, just log
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS focus_events (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			path        TEXT NOT NULL,
			action      TEXT NOT NULL,
			occurred_at TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_focus_events_path ON focus_events(path);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying journal schema: %w", err)
	}

	return &Journal{db: db, path: path}, nil
}

// Path returns the journal database location.
func (j *Journal) Path() string {
	if j == nil {
		return ""
	}
	return j.path
}

// Record appends one focus event. It satisfies the focus package's
// Recorder interface, so it must not return an error; failures are
// logged and dropped.
func (j *Journal) Record(action, path string) {
	if j == nil || j.db == nil {
		return
	}
	_, err := j.db.Exec(
		"INSERT INTO focus_events (path, action, occurred_at) VALUES (?, ?, ?)",
		path, action, time.Now().UTC(),
	)
	if err != nil {
		log.Printf("warning: could not record focus event: %v", err)
	}
}

// Recent returns up to limit distinct paths that were recently focused,
// newest first. Root is excluded; it is always one keypress away and
// would crowd out real destinations in the picker.
func (j *Journal) Recent(limit int) ([]string, error) {
	if j == nil || j.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT path
		FROM focus_events
		WHERE action = 'focus' AND path <> '/'
		GROUP BY path
		ORDER BY MAX(id) DESC
		LIMIT ?
	`
	rows, err := j.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent paths: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			continue
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recent paths: %w", err)
	}
	return paths, nil
}

// Count returns the number of recorded events.
func (j *Journal) Count() (int, error) {
	if j == nil || j.db == nil {
		return 0, nil
	}
	var count int
	err := j.db.QueryRow("SELECT COUNT(*) FROM focus_events").Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Prune deletes everything but the newest keep events.
func (j *Journal) Prune(keep int) error {
	if j == nil || j.db == nil {
		return nil
	}
	if keep < 0 {
		keep = 0
	}
	_, err := j.db.Exec(
		"DELETE FROM focus_events WHERE id NOT IN (SELECT id FROM focus_events ORDER BY id DESC LIMIT ?)",
		keep,
	)
	if err != nil {
		return fmt.Errorf("pruning journal: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}
