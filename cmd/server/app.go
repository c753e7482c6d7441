package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/scribe-api/internal/config"
	"github.com/phrazzld/scribe-api/internal/platform/sqldb"
	"github.com/phrazzld/scribe-api/internal/service"
	"github.com/phrazzld/scribe-api/internal/service/auth"
	"github.com/phrazzld/scribe-api/internal/store"
)

// application holds the shared dependencies of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore
	postStore store.PostStore

	authService *auth.Service
	postService service.PostService
	userService service.UserService

	shutdownTimeout time.Duration
}

// newApplication wires stores and services. db must already be migrated.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB, dialect sqldb.Dialect) (*application, error) {
	app := &application{
		config:          cfg,
		logger:          logger,
		db:              db,
		shutdownTimeout: 10 * time.Second,
	}

	codec, err := auth.NewTokenCodec(cfg.Auth.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token codec: %w", err)
	}

	app.userStore = sqldb.NewUserStore(db, dialect, logger)
	app.postStore = sqldb.NewPostStore(db, dialect, logger)

	app.authService = auth.NewService(app.userStore, auth.NewArgon2Hasher(cfg.Auth.Argon2), codec, cfg.Auth, logger)
	logger.Info("authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes),
		slog.Bool("email_case_sensitive", cfg.Auth.EmailCaseSensitive))

	app.postService = service.NewPostService(app.postStore, logger)
	app.userService = service.NewUserService(app.userStore, app.postStore, app.authService, db, logger)

	return app, nil
}
