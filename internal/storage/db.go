// ABOUTME: SQLite database connection and lifecycle management.
// ABOUTME: Uses modernc.org/sqlite (pure Go, no CGO required).
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("not found")

// DB implements Repository on a single SQLite file.
type DB struct {
	db *sql.DB
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Open opens or creates the SQLite file at path and prepares it for
// use. Callers resolve the path; see config.Config.DBPath.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	d := &DB{db: conn}
	if err := d.prepare(path); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return d, nil
}

// prepare runs the pragmas, tightens file permissions, and creates the
// schema. The file only exists on disk after the first statement, so
// the chmod comes after the pragmas.
func (d *DB) prepare(path string) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := d.db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("set database permissions: %w", err)
	}

	if err := d.initSchema(); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}
	return nil
}

const dateFormat = "2006-01-02"

// formatDate renders a civil date column value.
func formatDate(t time.Time) string {
	return t.UTC().Format(dateFormat)
}

// parseDate reads a civil date column value as UTC midnight.
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateFormat, s)
}

// formatTime renders a timestamp column value.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseTime reads a timestamp column value.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
