// Package history keeps a local SQLite record of executions so past sends
// can be reviewed from the CLI.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"

	"github.com/BBGONE/courier/packages/transport"
)

const (
	connectTimeout = 5 * time.Second
	queryTimeout   = 30 * time.Second
)

// Entry is one recorded execution.
type Entry struct {
	ID          int64
	At          time.Time
	Method      string
	URL         string
	StatusCode  int
	OK          bool
	DurationMs  int64
	FailureKind string
}

// Store records executions in a SQLite database file.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed initializes) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS executions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			at TIMESTAMP NOT NULL,
			method TEXT NOT NULL,
			url TEXT NOT NULL,
			status_code INTEGER NOT NULL,
			ok INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			failure_kind TEXT NOT NULL DEFAULT ''
		)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record appends one execution result.
func (s *Store) Record(res *transport.Result) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	kind := ""
	if res.Failure != nil {
		kind = res.Failure.Kind.String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO executions (at, method, url, status_code, ok, duration_ms, failure_kind)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC(), res.Method, res.URL, res.StatusCode, res.OK(),
		res.Duration.Milliseconds(), kind)
	if err != nil {
		return fmt.Errorf("failed to record execution: %w", err)
	}
	return nil
}

// Recent returns the latest limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, at, method, url, status_code, ok, duration_ms, failure_kind
		FROM executions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.At, &e.Method, &e.URL, &e.StatusCode,
			&e.OK, &e.DurationMs, &e.FailureKind); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
