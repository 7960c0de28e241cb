// Package storetest opens migrated SQLite stores for package tests.
package storetest

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/saksham0021/mira-astrology-review/migrations"
)

// Open creates a file-backed SQLite database under t.TempDir, applies the
// schema migrations and closes the connection when the test ends.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "mira.db")
	if err := migrations.Up("sqlite", "sqlite://"+path); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	return db
}
