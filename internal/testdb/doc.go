// Package testdb provides migrated databases for tests.
//
// Open returns an isolated postgres schema when SCRIBE_TEST_DB_URL (or
// DATABASE_URL) is set and a fresh SQLite file otherwise, so the same tests
// cover both dialects depending on where they run:
//
//	db, dialect := testdb.Open(t)
//	users := sqldb.NewUserStore(db, dialect, nil)
package testdb
