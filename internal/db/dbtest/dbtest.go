// Package dbtest opens migrated in-memory databases for tests.
package dbtest

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/diymedia/internal/db"
)

// MigrationsPath returns the file:// URL of the repository migrations directory,
// resolved relative to this file so tests work from any package directory
func MigrationsPath(t *testing.T) string {
	t.Helper()

	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "Failed to get current file path")

	// internal/db/dbtest -> repository root
	root := filepath.Dir(filepath.Dir(filepath.Dir(filepath.Dir(filename))))
	return "file://" + filepath.Join(root, "migrations")
}

// New creates an in-memory database with migrations applied.
// The database is closed when the test finishes.
func New(t *testing.T) (*db.DB, *db.Repositories) {
	t.Helper()

	database, err := db.New(":memory:")
	require.NoError(t, err, "Failed to create in-memory database")

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err, "Failed to get SQL DB")
	require.NoError(t, db.RunMigrations(sqlDB, MigrationsPath(t)), "Failed to run migrations")

	t.Cleanup(func() {
		_ = database.Close()
	})

	return database, db.NewRepositories(database)
}
