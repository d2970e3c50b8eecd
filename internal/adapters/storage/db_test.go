package storage

import (
	"database/sql"
	"path/filepath"
	"sort"
	"testing"
)

// openTestDB creates a file-backed SQLite database for testing.
func openTestDB(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, path
}

// getTableNames returns sorted table names from sqlite_master, excluding internal tables.
func getTableNames(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan table name: %v", err)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// expectedTables is the sorted list of tables after all migrations.
var expectedTables = []string{
	"activities",
	"activity_participants",
	"schema_migrations",
	"students",
}

// TestMigrateDB_Fresh verifies all migrations apply cleanly to an empty database.
func TestMigrateDB_Fresh(t *testing.T) {
	db, path := openTestDB(t)

	if err := MigrateDB(db, path); err != nil {
		t.Fatalf("MigrateDB failed on fresh db: %v", err)
	}
	version, err := SchemaVersion(db, path)
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if version != LatestSchemaVersion() {
		t.Errorf("version = %d, want %d", version, LatestSchemaVersion())
	}

	got := getTableNames(t, db)
	if len(got) != len(expectedTables) {
		t.Fatalf("tables = %v, want %v", got, expectedTables)
	}
	for i := range got {
		if got[i] != expectedTables[i] {
			t.Errorf("table[%d] = %q, want %q", i, got[i], expectedTables[i])
		}
	}
}

// TestMigrateDB_Idempotent verifies that running MigrateDB twice produces no errors.
func TestMigrateDB_Idempotent(t *testing.T) {
	db, path := openTestDB(t)
	if err := MigrateDB(db, path); err != nil {
		t.Fatalf("first MigrateDB failed: %v", err)
	}
	if err := MigrateDB(db, path); err != nil {
		t.Fatalf("second MigrateDB failed: %v", err)
	}
}

// TestMigrateDB_VersionProgression verifies that SchemaVersion reports 0 before
// migration and the latest version after.
func TestMigrateDB_VersionProgression(t *testing.T) {
	db, path := openTestDB(t)

	v, err := SchemaVersion(db, path)
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if v != 0 {
		t.Errorf("pre-migration version = %d, want 0", v)
	}
	if err := MigrateDB(db, path); err != nil {
		t.Fatalf("MigrateDB failed: %v", err)
	}
	v, err = SchemaVersion(db, path)
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if v != LatestSchemaVersion() {
		t.Errorf("post-migration version = %d, want %d", v, LatestSchemaVersion())
	}
}

// TestMigrateDB_PositionCheck verifies the schema rejects out-of-range placings.
func TestMigrateDB_PositionCheck(t *testing.T) {
	db, path := openTestDB(t)
	if err := MigrateDB(db, path); err != nil {
		t.Fatalf("MigrateDB failed: %v", err)
	}
	mustExec(t, db, "INSERT INTO students (id, first_name, last_name, school_year, room) VALUES (1, 'Ana', 'Lopez', '2025-2026', 4)")
	mustExec(t, db, "INSERT INTO activities (id, year, name, activity_date) VALUES (1, 2025, 'Relay', '2025-03-02')")

	if _, err := db.Exec("INSERT INTO activity_participants (activity_id, student_id, position) VALUES (1, 1, 4)"); err == nil {
		t.Error("position 4 accepted by schema")
	}
	mustExec(t, db, "INSERT INTO activity_participants (activity_id, student_id, position) VALUES (1, 1, NULL)")
}

// TestLatestSchemaVersion verifies the embedded migrations are discovered.
func TestLatestSchemaVersion(t *testing.T) {
	if got := LatestSchemaVersion(); got != 2 {
		t.Errorf("LatestSchemaVersion() = %d, want 2", got)
	}
}

func mustExec(t *testing.T, db *sql.DB, query string) {
	t.Helper()
	if _, err := db.Exec(query); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}
