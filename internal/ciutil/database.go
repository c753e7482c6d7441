package ciutil

import (
	"fmt"
	"log/slog"
	"net/url"
)

// Defaults applied to postgres URLs in CI when the URL leaves them out.
const (
	StandardCIPort     = "5432"
	StandardCIDatabase = "scribe_test"
	StandardCIOptions  = "sslmode=disable"
)

// GetTestDatabaseURL returns the postgres URL for integration tests from
// SCRIBE_TEST_DB_URL or DATABASE_URL, or "" when neither is set. In CI the
// port, database and options are filled in when missing.
func GetTestDatabaseURL(logger *slog.Logger) string {
	dbURL := GetEnvWithFallbacks([]string{EnvScribeTestDBURL, EnvDatabaseURL}, "", logger)
	if dbURL == "" || !IsCI() {
		return dbURL
	}

	standardized, err := standardizeDatabaseURL(dbURL)
	if err != nil {
		if logger != nil {
			logger.Error("failed to standardize database URL",
				slog.String("error", err.Error()),
				slog.String("url", MaskSensitiveValue(dbURL)))
		}
		return dbURL
	}
	if standardized != dbURL && logger != nil {
		logger.Info("standardized database URL for CI",
			slog.String("url", MaskSensitiveValue(standardized)))
	}
	return standardized
}

func standardizeDatabaseURL(dbURL string) (string, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse database URL: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return dbURL, nil
	}

	if u.Port() == "" && u.Hostname() != "" {
		u.Host = u.Hostname() + ":" + StandardCIPort
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/" + StandardCIDatabase
	}
	if u.RawQuery == "" {
		u.RawQuery = StandardCIOptions
	}
	return u.String(), nil
}
