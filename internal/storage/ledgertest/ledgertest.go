// Package ledgertest builds throwaway ledgers for tests.
package ledgertest

import (
	"database/sql"
	"path/filepath"
	"testing"

	"collapse/internal/core"
	"collapse/internal/storage"
)

// Severity returns a pointer for use in core.Event literals.
func Severity(v float64) *float64 {
	return &v
}

// Build creates a ledger in a temporary directory holding events and
// returns its path.
func Build(t testing.TB, events ...core.Event) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "evenements_actu.db")
	if err := storage.InitLedger(path); err != nil {
		t.Fatalf("init ledger: %v", err)
	}
	Insert(t, path, events...)
	return path
}

// Insert appends events to an existing ledger.
func Insert(t testing.TB, path string, events ...core.Event) {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	defer db.Close()

	for _, e := range events {
		var severity sql.NullFloat64
		if e.Severity != nil {
			severity = sql.NullFloat64{Float64: *e.Severity, Valid: true}
		}
		_, err := db.Exec(
			`INSERT INTO evenements (parametre, gravite, date_publication) VALUES (?, ?, ?)`,
			string(e.Category), severity, e.PublicationDate,
		)
		if err != nil {
			t.Fatalf("insert event %+v: %v", e, err)
		}
	}
}
