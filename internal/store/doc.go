// Package store defines the persistence contracts for users and posts.
// Implementations live under internal/platform; business code depends only
// on these interfaces and on the sentinel errors declared here, so that a
// missing row or a uniqueness conflict means the same thing regardless of
// the database behind it.
package store
