// Package sqlite journals count snapshots into a SQLite database for later
// inspection: which categories existed, and how every total moved over time.
// The journal is debugging tooling. It records observations and never feeds
// them back into a registry.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/momentohq/resourcetrack/core/report"
	"github.com/momentohq/resourcetrack/core/snapshot"
)

// StoreConfig configures a Store.
type StoreConfig[C comparable] struct {
	// Path of the database file. Use ":memory:" to keep the journal in
	// memory.
	Path string
	// Key renders a category into its stored form (default: fmt.Sprint).
	// Distinct categories must render to distinct keys.
	Key func(C) string
}

// Store journals snapshots, one row per category per snapshot. It implements
// report.Sink, so it plugs into a Reporter directly.
type Store[C comparable] struct {
	db  *sql.DB
	key func(C) string
	mu  sync.RWMutex
}

var _ report.Sink[string] = (*Store[string])(nil)

// Point is one journaled observation of a category.
type Point struct {
	At    time.Time
	Count int64
}

// NewStore opens the journal at cfg.Path, creating the schema if needed.
func NewStore[C comparable](cfg StoreConfig[C]) (*Store[C], error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite: store path is empty")
	}
	if cfg.Key == nil {
		cfg.Key = func(id C) string { return fmt.Sprint(id) }
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	s := &Store[C]{db: db, key: cfg.Key}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return s, nil
}

func (s *Store[C]) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS counts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		taken_at INTEGER NOT NULL,
		category TEXT NOT NULL,
		count INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_category_taken_at ON counts(category, taken_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record journals every count of snap in one transaction. Timestamps are
// stored with millisecond precision.
func (s *Store[C]) Record(ctx context.Context, snap snapshot.Snapshot[C]) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	takenAt := snap.At.UnixMilli()
	for _, c := range snap.Counts {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO counts (taken_at, category, count) VALUES (?, ?, ?)",
			takenAt, s.key(c.Category), c.Count,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert count: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit counts: %w", err)
	}

	return nil
}

// History returns the journaled points for one category at or after since,
// oldest first. A zero since returns the full history. Timestamps come back
// in UTC.
func (s *Store[C]) History(ctx context.Context, id C, since time.Time) ([]Point, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT taken_at, count FROM counts WHERE category = ? AND taken_at >= ? ORDER BY taken_at, id",
		s.key(id), since.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var points []Point
	for rows.Next() {
		var takenAt, count int64
		if err := rows.Scan(&takenAt, &count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		points = append(points, Point{At: time.UnixMilli(takenAt).UTC(), Count: count})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}

	return points, nil
}

// Categories returns every distinct category key ever journaled, sorted.
func (s *Store[C]) Categories(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT category FROM counts ORDER BY category")
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}

// Close closes the underlying database.
func (s *Store[C]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
