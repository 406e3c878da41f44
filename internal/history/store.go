// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a local SQLite log of completed searches. It records
// what was asked and how the sources fared; it never caches results, so a
// repeated theme always queries the live collections.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/museum-search/internal/search"
)

// DefaultPath is the history database location relative to the working
// directory.
const DefaultPath = "data/history.db"

const defaultLimit = 20

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Entry is one recorded search.
type Entry struct {
	ID            int64     `json:"id" yaml:"id"`
	Theme         string    `json:"theme" yaml:"theme"`
	Period        string    `json:"period,omitempty" yaml:"period,omitempty"`
	Candidates    int       `json:"candidates" yaml:"candidates"`
	Kept          int       `json:"kept" yaml:"kept"`
	Total         int       `json:"total" yaml:"total"`
	FailedSources []string  `json:"failed_sources,omitempty" yaml:"failed_sources,omitempty"`
	DurationMS    int64     `json:"duration_ms" yaml:"duration_ms"`
	At            time.Time `json:"at" yaml:"at"`
}

// Query filters Recent.
type Query struct {
	// Theme matches entries whose theme contains it, case-insensitively.
	Theme string

	// Limit caps the number of entries. Zero uses the default.
	Limit int
}

// Store is the SQLite-backed search history. It implements search.Recorder.
type Store struct {
	db *sql.DB
}

var _ search.Recorder = (*Store)(nil)

// Open opens or creates the history database at path, creating parent
// directories as needed. The path ":memory:" opens a private in-memory
// database.
func Open(path string) (*Store, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating history directory: %w", err)
			}
		}
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps an in-memory database alive and serializes
	// writers from concurrent requests.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS searches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			theme TEXT NOT NULL,
			period TEXT,
			candidates INTEGER NOT NULL,
			kept INTEGER NOT NULL,
			total INTEGER NOT NULL,
			failed_sources TEXT,
			duration_ms INTEGER NOT NULL,
			searched_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_searches_searched_at ON searches(searched_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends a search summary.
func (s *Store) Record(ctx context.Context, sum search.Summary) error {
	failed, err := json.Marshal(sum.Failed)
	if err != nil {
		return fmt.Errorf("encoding failed sources: %w", err)
	}
	at := sum.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO searches (theme, period, candidates, kept, total, failed_sources, duration_ms, searched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sum.Theme, sum.Period, sum.Candidates, sum.Kept, sum.Total,
		string(failed), sum.Duration.Milliseconds(), at.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting search: %w", err)
	}
	return nil
}

// Recent returns recorded searches, newest first.
func (s *Store) Recent(ctx context.Context, q Query) ([]Entry, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT id, theme, period, candidates, kept, total, failed_sources, duration_ms, searched_at
		FROM searches`)
	if theme := strings.TrimSpace(q.Theme); theme != "" {
		qb.WriteString(` WHERE theme LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(theme)+"%")
	}
	qb.WriteString(` ORDER BY searched_at DESC, id DESC LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e              Entry
			period, failed sql.NullString
			at             string
		)
		if err := rows.Scan(&e.ID, &e.Theme, &period, &e.Candidates, &e.Kept, &e.Total, &failed, &e.DurationMS, &at); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		e.Period = period.String
		if failed.Valid && failed.String != "" && failed.String != "null" {
			if err := json.Unmarshal([]byte(failed.String), &e.FailedSources); err != nil {
				return nil, fmt.Errorf("decoding failed sources for search %d: %w", e.ID, err)
			}
		}
		if e.At, err = time.Parse(timeLayout, at); err != nil {
			return nil, fmt.Errorf("parsing timestamp for search %d: %w", e.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
