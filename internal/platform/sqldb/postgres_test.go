package sqldb

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/scribe-api/internal/domain"
	"github.com/phrazzld/scribe-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The postgres dialect is exercised against sqlmock: it must emit numbered
// placeholders and map pg error codes.

func newPostgresMock(t *testing.T) (sqlmock.Sqlmock, *UserStore, *PostStore) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return mock, NewUserStore(db, Postgres, nil), NewPostStore(db, Postgres, nil)
}

func TestPostgresUserCreateUsesNumberedPlaceholders(t *testing.T) {
	t.Parallel()

	mock, users, _ := newPostgresMock(t)
	u := newTestUser(t, "ada@example.com")

	q := `(?s)INSERT\s+INTO\s+users\s*\(.*\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7,\s*\$8,\s*\$9\)\s*RETURNING\s+id`
	mock.ExpectQuery(q).
		WithArgs("Ada", "Lovelace", "ada@example.com", u.PasswordHash, u.Salt, "user",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	require.NoError(t, users.Create(context.Background(), u))
	assert.Equal(t, int64(42), u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserCreateUniqueViolation(t *testing.T) {
	t.Parallel()

	mock, users, _ := newPostgresMock(t)
	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err := users.Create(context.Background(), newTestUser(t, "ada@example.com"))
	assert.ErrorIs(t, err, store.ErrEmailExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPostListQueries(t *testing.T) {
	t.Parallel()

	mock, _, posts := newPostgresMock(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))
	mock.ExpectQuery(`FROM posts ORDER BY id LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "user_id", "created_at", "updated_at"}).
			AddRow(int64(11), "Last", "body", nil, int64(1700000000000), int64(1700000000000)))

	page, total, err := posts.List(context.Background(), 10, 10)
	require.NoError(t, err)
	assert.Equal(t, 11, total)
	require.Len(t, page, 1)
	assert.Nil(t, page[0].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserScanRejectsUnknownRole(t *testing.T) {
	t.Parallel()

	mock, users, _ := newPostgresMock(t)
	cols := []string{"id", "first_name", "last_name", "email", "password_hash", "salt",
		"role", "date_of_birth", "created_at", "updated_at"}
	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(3), "Ada", "Lovelace", "ada@example.com", "aGFzaA==", "c2FsdA==",
				"root", nil, int64(1700000000000), int64(1700000000000)))
	mock.ExpectQuery(`FROM users`).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(3), "Ada", "Lovelace", "ada@example.com", "aGFzaA==", "c2FsdA==",
				"superuser", nil, int64(1700000000000), int64(1700000000000)))

	_, err := users.GetByID(context.Background(), 3)
	assert.ErrorIs(t, err, store.ErrCorruptRecord)
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
	assert.False(t, store.IsNotFoundError(err))

	_, err = users.List(context.Background(), store.UserFilter{})
	assert.ErrorIs(t, err, store.ErrCorruptRecord)
	assert.NoError(t, mock.ExpectationsWereMet())
}
