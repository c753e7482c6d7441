package testdb

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scribe-api/internal/ciutil"
	"github.com/phrazzld/scribe-api/internal/config"
	"github.com/phrazzld/scribe-api/internal/platform/sqldb"
	"github.com/stretchr/testify/require"
)

// TestTimeout bounds setup and teardown statements.
const TestTimeout = 30 * time.Second

// Open returns a migrated database that is closed, and for postgres
// dropped, when the test ends.
func Open(t *testing.T) (*sql.DB, sqldb.Dialect) {
	t.Helper()

	if dbURL := ciutil.GetTestDatabaseURL(nil); dbURL != "" {
		return openPostgres(t, dbURL)
	}
	return OpenSQLite(t)
}

// OpenSQLite returns a migrated SQLite database in a per-test directory.
func OpenSQLite(t *testing.T) (*sql.DB, sqldb.Dialect) {
	t.Helper()

	return open(t, config.DatabaseConfig{
		Driver: "sqlite",
		URL:    filepath.Join(t.TempDir(), "scribe_test.db"),
	})
}

// OpenPostgres returns a migrated postgres schema, skipping the test when no
// test database is configured.
func OpenPostgres(t *testing.T) (*sql.DB, sqldb.Dialect) {
	t.Helper()

	dbURL := ciutil.GetTestDatabaseURL(nil)
	if dbURL == "" {
		t.Skipf("%s not set", ciutil.EnvScribeTestDBURL)
	}
	return openPostgres(t, dbURL)
}

// openPostgres creates a throwaway schema and points the pool's search_path
// at it, so parallel tests never see each other's rows.
func openPostgres(t *testing.T, baseURL string) (*sql.DB, sqldb.Dialect) {
	t.Helper()

	schema := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	scopedURL, err := withSearchPath(baseURL, schema)
	require.NoError(t, err, "test database URL must be a postgres:// URL")

	exec(t, baseURL, fmt.Sprintf(`CREATE SCHEMA %q`, schema))
	t.Cleanup(func() { exec(t, baseURL, fmt.Sprintf(`DROP SCHEMA IF EXISTS %q CASCADE`, schema)) })

	return open(t, config.DatabaseConfig{Driver: "postgres", URL: scopedURL, MaxOpenConns: 4})
}

func open(t *testing.T, cfg config.DatabaseConfig) (*sql.DB, sqldb.Dialect) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, dialect, err := sqldb.Open(ctx, cfg, nil)
	require.NoError(t, err, "failed to open %s test database (%s)", cfg.Driver, ciutil.MaskSensitiveValue(cfg.URL))
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, sqldb.Migrate(ctx, db, dialect, sqldb.MigrateUp, nil), "failed to migrate test database")
	return db, dialect
}

func exec(t *testing.T, dbURL, stmt string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, _, err := sqldb.Open(ctx, config.DatabaseConfig{Driver: "postgres", URL: dbURL}, nil)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = db.ExecContext(ctx, stmt)
	require.NoError(t, err)
}

func withSearchPath(dbURL, schema string) (string, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return "", err
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
