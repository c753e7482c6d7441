package sqldb

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/phrazzld/scribe-api/internal/config"
	"github.com/phrazzld/scribe-api/internal/domain"
	"github.com/stretchr/testify/require"
)

// openTestDB returns a migrated SQLite database in a per-test directory.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	cfg := config.DatabaseConfig{
		Driver: "sqlite",
		URL:    filepath.Join(t.TempDir(), "scribe_test.db"),
	}
	db, dialect, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.Equal(t, SQLite, dialect)
	require.NoError(t, Migrate(context.Background(), db, dialect, MigrateUp, nil))
	return db
}

func newTestUser(t *testing.T, email string) *domain.User {
	t.Helper()

	dob := time.Date(1990, time.March, 14, 0, 0, 0, 0, time.UTC)
	u, err := domain.NewUser("Ada", "Lovelace", email, &dob)
	require.NoError(t, err)
	u.PasswordHash = "aGFzaA=="
	u.Salt = "c2FsdA=="
	return u
}
