// Package storagetest opens migrated SQLite databases for store tests.
package storagetest

import (
	"database/sql"
	"path/filepath"
	"testing"

	"roster/internal/adapters/storage"
)

// Open returns a migrated, file-backed database under t.TempDir.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.db")
	db, err := storage.Open(path)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db, path); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// Exec runs a statement or fails the test.
func Exec(t testing.TB, db *sql.DB, query string, args ...any) {
	t.Helper()
	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}
