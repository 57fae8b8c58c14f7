// Package storage is the read-only query surface over the cached ledger.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"collapse/internal/core"

	_ "modernc.org/sqlite"
)

const eventsTable = "evenements"

// ErrStoreUnavailable is returned when the ledger cannot be opened as a
// SQLite database. Aggregation cannot proceed without it.
var ErrStoreUnavailable = errors.New("event store unavailable")

// SQLiteStore answers count and average queries over the ledger. Every call
// goes to the database; nothing is memoized.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// Open opens the ledger at path read-only. It never creates the file: a
// missing, empty or non-SQLite file yields ErrStoreUnavailable.
func Open(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: empty path", ErrStoreUnavailable)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrStoreUnavailable, path)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrStoreUnavailable, path)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=query_only(1)")
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite database: %w", ErrStoreUnavailable, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping database: %w", ErrStoreUnavailable, err)
	}

	// Reading the schema is what surfaces "file is not a database".
	var tables int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master`).Scan(&tables); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: read schema of %s: %w", ErrStoreUnavailable, path, err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Close releases the database handle. Calling it twice is safe.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Path returns the ledger file backing the store.
func (s *SQLiteStore) Path() string {
	return s.path
}

// TotalEventCount counts every row regardless of category.
func (s *SQLiteStore) TotalEventCount(ctx context.Context) (int, error) {
	ok, err := s.hasEventsTable(ctx)
	if err != nil || !ok {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+eventsTable).Scan(&count); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}

// AverageSeverity returns the mean gravite of rows in category published
// during month. ok is false when no row matches.
func (s *SQLiteStore) AverageSeverity(ctx context.Context, category core.Category, month int) (avg float64, ok bool, err error) {
	if err := core.ValidateMonth(month); err != nil {
		return 0, false, err
	}
	exists, err := s.hasEventsTable(ctx)
	if err != nil || !exists {
		return 0, false, err
	}

	var result sql.NullFloat64
	err = s.db.QueryRowContext(ctx, `
		SELECT AVG(gravite)
		FROM `+eventsTable+`
		WHERE parametre = ? AND `+eventMonthFunc+`(date_publication) = ?`,
		string(category), month,
	).Scan(&result)
	if err != nil {
		return 0, false, fmt.Errorf("average severity for %s/%02d: %w", category, month, err)
	}

	return result.Float64, result.Valid, nil
}

// EventCount counts rows in category published during month.
func (s *SQLiteStore) EventCount(ctx context.Context, category core.Category, month int) (int, error) {
	if err := core.ValidateMonth(month); err != nil {
		return 0, err
	}
	exists, err := s.hasEventsTable(ctx)
	if err != nil || !exists {
		return 0, err
	}

	var count int
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM `+eventsTable+`
		WHERE parametre = ? AND `+eventMonthFunc+`(date_publication) = ?`,
		string(category), month,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count events for %s/%02d: %w", category, month, err)
	}

	return count, nil
}

func (s *SQLiteStore) hasEventsTable(ctx context.Context) (bool, error) {
	if s == nil || s.db == nil {
		return false, fmt.Errorf("%w: store is closed", ErrStoreUnavailable)
	}

	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, eventsTable,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("look up %s table: %w", eventsTable, err)
	}
	return n > 0, nil
}
