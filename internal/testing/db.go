// Package testing provides database helpers shared by the qvlens test suites.
package testing

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/aristath/qvlens/internal/database"
)

// NewTestDB creates a migrated, file-backed database under t.TempDir().
// name selects the schema: "elections" or "cache".
// The database is closed when the test finishes.
func NewTestDB(t *testing.T, name string) *database.DB {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), name+".db"),
		Profile: database.ProfileStandard,
		Name:    name,
	})
	if err != nil {
		t.Fatalf("Failed to create test database %s: %v", name, err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: Failed to close test database %s: %v", name, err)
		}
	})

	if err := db.Migrate(); err != nil {
		t.Fatalf("Failed to migrate test database %s: %v", name, err)
	}
	return db
}

// NewMemoryDB opens an in-memory database on the given driver ("sqlite" or
// "sqlite3") and applies the named schema. The pool is pinned to a single
// connection so every query sees the same in-memory database.
func NewMemoryDB(t *testing.T, driver, name string) *sql.DB {
	t.Helper()

	db, err := sql.Open(driver, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory %s database: %v", driver, err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	schema, err := database.Schema(name)
	if err != nil {
		t.Fatalf("Failed to load schema %s: %v", name, err)
	}
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("Failed to apply schema %s: %v", name, err)
	}
	return db
}
