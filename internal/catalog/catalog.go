// Package catalog records extracted samples in a local SQLite database.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS samples (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL,
		transcript TEXT NOT NULL,
		audio TEXT NOT NULL,
		query TEXT NOT NULL,
		cueIndex INTEGER NOT NULL,
		text TEXT NOT NULL,
		startMs INTEGER NOT NULL,
		endMs INTEGER NOT NULL,
		startOffsetMs INTEGER NOT NULL DEFAULT 0,
		endOffsetMs INTEGER NOT NULL DEFAULT 0,
		createdAt REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS samples_created ON samples(createdAt);
`

// Sample is one extracted artifact.
type Sample struct {
	ID          int64         `json:"id"`
	Path        string        `json:"path"`
	Transcript  string        `json:"transcript"`
	Audio       string        `json:"audio"`
	Query       string        `json:"query"`
	CueIndex    int           `json:"cue_index"`
	Text        string        `json:"text"`
	Start       time.Duration `json:"start"`
	End         time.Duration `json:"end"`
	StartOffset time.Duration `json:"start_offset"`
	EndOffset   time.Duration `json:"end_offset"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Store is the sample catalog.
type Store struct {
	db *sql.DB
}

// Open opens or creates the catalog at path. ":memory:" is accepted.
func Open(path string) (*Store, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create catalog dir: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	// One connection keeps an in-memory database alive and serialises writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping catalog: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts a sample and returns its id.
func (s *Store) Record(ctx context.Context, sm Sample) (int64, error) {
	if sm.CreatedAt.IsZero() {
		sm.CreatedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO samples (path, transcript, audio, query, cueIndex, text,
			startMs, endMs, startOffsetMs, endOffsetMs, createdAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sm.Path, sm.Transcript, sm.Audio, sm.Query, sm.CueIndex, sm.Text,
		sm.Start.Milliseconds(), sm.End.Milliseconds(),
		sm.StartOffset.Milliseconds(), sm.EndOffset.Milliseconds(),
		unixFromTime(sm.CreatedAt))
	if err != nil {
		return 0, fmt.Errorf("insert sample: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit samples, newest first. limit <= 0 returns all.
func (s *Store) Recent(ctx context.Context, limit int) ([]Sample, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, path, transcript, audio, query, cueIndex, text,
			startMs, endMs, startOffsetMs, endOffsetMs, createdAt
		FROM samples
		ORDER BY createdAt DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	var out []Sample
	for rows.Next() {
		var sm Sample
		var startMs, endMs, startOff, endOff int64
		var createdAt float64
		if err := rows.Scan(&sm.ID, &sm.Path, &sm.Transcript, &sm.Audio, &sm.Query,
			&sm.CueIndex, &sm.Text, &startMs, &endMs, &startOff, &endOff, &createdAt); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		sm.Start = time.Duration(startMs) * time.Millisecond
		sm.End = time.Duration(endMs) * time.Millisecond
		sm.StartOffset = time.Duration(startOff) * time.Millisecond
		sm.EndOffset = time.Duration(endOff) * time.Millisecond
		sm.CreatedAt = timeFromUnix(createdAt)
		out = append(out, sm)
	}
	return out, rows.Err()
}

// CountForPath returns how many times a path has been written.
func (s *Store) CountForPath(ctx context.Context, path string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM samples WHERE path = ?`, path).Scan(&n); err != nil {
		return 0, fmt.Errorf("count samples: %w", err)
	}
	return n, nil
}

func unixFromTime(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

func timeFromUnix(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}
