package history

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/siftlab/sift/internal/filter"
)

//go:embed schema.sql
var schemaSQL string

// Entry records one applied filter pass: which dataset, which conditions,
// and what came out.
type Entry struct {
	ID         int
	Dataset    string
	Conditions []filter.Condition
	Matched    int
	Total      int
	Duration   time.Duration
	AppliedAt  time.Time
}

// Store persists filter runs to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the history database at path.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Add appends a filter run. Conditions serialize to JSON; they round-trip
// losslessly through the condition model's custom unmarshaling.
func (s *Store) Add(entry Entry) error {
	conds, err := json.Marshal(entry.Conditions)
	if err != nil {
		return fmt.Errorf("failed to serialize conditions: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO filter_runs (dataset, conditions, matched, total, duration_ms)
		VALUES (?, ?, ?, ?, ?)`,
		entry.Dataset,
		string(conds),
		entry.Matched,
		entry.Total,
		entry.Duration.Milliseconds(),
	)
	return err
}

// GetRecent returns the most recent filter runs, newest first.
func (s *Store) GetRecent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, dataset, conditions, matched, total, duration_ms, applied_at
		FROM filter_runs
		ORDER BY applied_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var conds string
		var durationMs int64
		var appliedAt string

		if err := rows.Scan(&e.ID, &e.Dataset, &conds, &e.Matched, &e.Total, &durationMs, &appliedAt); err != nil {
			return nil, err
		}

		if err := json.Unmarshal([]byte(conds), &e.Conditions); err != nil {
			return nil, fmt.Errorf("failed to decode stored conditions: %w", err)
		}
		e.Duration = time.Duration(durationMs) * time.Millisecond
		e.AppliedAt, _ = time.Parse("2006-01-02 15:04:05", appliedAt)

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Prune deletes all but the newest max entries. A non-positive max is a
// no-op.
func (s *Store) Prune(max int) error {
	if max <= 0 {
		return nil
	}
	_, err := s.db.Exec(`
		DELETE FROM filter_runs
		WHERE id NOT IN (
			SELECT id FROM filter_runs
			ORDER BY applied_at DESC, id DESC
			LIMIT ?
		)`, max)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
