package storage

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func TestInitLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")

	if err := InitLedger(path); err != nil {
		t.Fatalf("init ledger: %v", err)
	}
	// Running twice is a no-op
	if err := InitLedger(path); err != nil {
		t.Fatalf("second init: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'evenements'`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected evenements table, found %d", n)
	}
}
