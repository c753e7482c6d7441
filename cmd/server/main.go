// Package main implements the entry point for the Scribe API server, a
// blogging API whose users authenticate with HTTP Basic credentials or
// bearer tokens and may only modify what they own unless they are admins.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/scribe-api/internal/config"
	"github.com/phrazzld/scribe-api/internal/platform/logger"
	"github.com/phrazzld/scribe-api/internal/platform/sqldb"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status) and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *migrateCmd); err != nil {
		log.Printf("scribe-api: %v", err)
		stop()
		os.Exit(1)
	}
}

// run loads configuration, connects to the database and either executes a
// single migration command or serves HTTP until ctx is canceled.
func run(ctx context.Context, migrateCmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(logger.LoggerConfig{Level: cfg.Server.LogLevel})
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	l.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database_driver", cfg.Database.Driver))

	db, dialect, err := sqldb.Open(ctx, cfg.Database, l)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			l.Error("failed to close database", "error", cerr)
		}
	}()

	if migrateCmd != "" {
		return sqldb.Migrate(ctx, db, dialect, migrateCmd, l)
	}
	if err := sqldb.Migrate(ctx, db, dialect, sqldb.MigrateUp, l); err != nil {
		return err
	}

	app, err := newApplication(cfg, l, db, dialect)
	if err != nil {
		return err
	}
	return app.startHTTPServer(ctx, app.setupRouter())
}
