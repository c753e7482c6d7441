package testdb

import (
	"context"
	"database/sql"
	"testing"

	"github.com/phrazzld/scribe-api/internal/platform/sqldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countUsers(t *testing.T, q interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
}) int {
	t.Helper()
	var n int
	require.NoError(t, q.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM users").Scan(&n))
	return n
}

func TestOpenSQLiteIsMigrated(t *testing.T) {
	t.Parallel()

	db, dialect := OpenSQLite(t)
	assert.Equal(t, sqldb.SQLite, dialect)
	assert.Equal(t, 0, countUsers(t, db))
}

func TestWithTxRollsBack(t *testing.T) {
	t.Parallel()

	db, dialect := OpenSQLite(t)

	WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		_, err := tx.ExecContext(context.Background(), dialect.Rebind(
			`INSERT INTO users (first_name, last_name, email, password_hash, salt, role, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
			"Ada", "Lovelace", "ada@example.com", "aGFzaA==", "c2FsdA==", "user", 1, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, countUsers(t, tx))
	})

	assert.Equal(t, 0, countUsers(t, db))
}

func TestWithSearchPath(t *testing.T) {
	t.Parallel()

	got, err := withSearchPath("postgres://u:p@localhost:5432/blog?sslmode=disable", "test_abc")
	require.NoError(t, err)
	assert.Contains(t, got, "search_path=test_abc")
	assert.Contains(t, got, "sslmode=disable")

	_, err = withSearchPath("host=localhost dbname=blog", "test_abc")
	assert.Error(t, err)
}

func TestOpenPostgres(t *testing.T) {
	db, dialect := OpenPostgres(t)
	assert.Equal(t, sqldb.Postgres, dialect)
	assert.Equal(t, 0, countUsers(t, db))
}
