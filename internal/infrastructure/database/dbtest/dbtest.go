// Package dbtest opens throwaway, fully migrated databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/nerrad567/devicelink/internal/infrastructure/database"
	_ "github.com/nerrad567/devicelink/migrations" // registers the embedded schema
)

// Open returns a migrated database in t.TempDir(), closed when the test ends.
func Open(t testing.TB) *database.DB {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "devicelink.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if err := db.Migrate(t.Context()); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}
