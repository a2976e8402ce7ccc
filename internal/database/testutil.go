package database

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/workforce-portal/internal/config"
)

// SetupTestDB creates an in-memory SQLite database with every migration
// applied.  The database is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := OpenSQLite(":memory:")
	require.NoError(t, err, "Failed to create test database")

	err = Migrate(db, config.DriverSQLite)
	require.NoError(t, err, "Failed to run migrations on test database")

	t.Cleanup(func() { _ = db.Close() })
	return db
}
