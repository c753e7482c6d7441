// Package config handles configuration loading, parsing, and validation
// from a config.yaml file and SCRIBE_-prefixed environment variables. It
// provides type-safe access to server, database and auth settings, and
// rejects a configuration without a signing secret.
package config
