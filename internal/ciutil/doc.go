// Package ciutil detects CI environments and resolves the database URL that
// integration tests should run against.
package ciutil
