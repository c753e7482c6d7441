// Package sqldb implements the store interfaces on database/sql.
//
// Two backends share one set of queries: PostgreSQL through the pgx stdlib
// driver and SQLite through the pure-Go modernc driver. Queries are written
// with '?' placeholders and rebound per dialect. Timestamps are stored as
// UTC unix milliseconds so both backends round-trip them identically.
package sqldb
