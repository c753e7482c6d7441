// Command admin provisions privileged accounts for the Scribe API.
//
// Usage:
//
//	admin create-admin -email ada@example.com -first Ada -last Lovelace
//	admin set-role -email bob@example.com -role admin
//
// create-admin prompts for the password; when stdin is not a terminal the
// first line of stdin is used instead. Configuration comes from the same
// SCRIBE_* environment variables and config.yaml as the server.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/phrazzld/scribe-api/internal/config"
	"github.com/phrazzld/scribe-api/internal/domain"
	"github.com/phrazzld/scribe-api/internal/platform/logger"
	"github.com/phrazzld/scribe-api/internal/platform/sqldb"
	"github.com/phrazzld/scribe-api/internal/service/auth"
	"github.com/phrazzld/scribe-api/internal/store"
	"golang.org/x/term"
)

var errUsage = errors.New("usage: admin <create-admin|set-role> [flags]")

// admin bundles what the subcommands need.
type admin struct {
	auth         *auth.Service
	users        store.UserStore
	readPassword func(prompt string) (string, error)
	out          io.Writer
	logger       *slog.Logger
}

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "admin: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	l, err := logger.Setup(logger.LoggerConfig{Level: "warn", Output: os.Stderr})
	if err != nil {
		return err
	}

	db, dialect, err := sqldb.Open(ctx, cfg.Database, l)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	if err := sqldb.Migrate(ctx, db, dialect, sqldb.MigrateUp, l); err != nil {
		return err
	}

	codec, err := auth.NewTokenCodec(cfg.Auth.JWTSecret)
	if err != nil {
		return err
	}
	users := sqldb.NewUserStore(db, dialect, l)

	a := &admin{
		auth:         auth.NewService(users, auth.NewArgon2Hasher(cfg.Auth.Argon2), codec, cfg.Auth, l),
		users:        users,
		readPassword: promptPassword(os.Stdin, os.Stderr),
		out:          os.Stdout,
		logger:       l,
	}
	return a.dispatch(ctx, args)
}

func (a *admin) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "create-admin":
		return a.createAdmin(ctx, args[1:])
	case "set-role":
		return a.setRole(ctx, args[1:])
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}
}

func (a *admin) createAdmin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	email := fs.String("email", "", "admin email (required)")
	first := fs.String("first", "Admin", "first name")
	last := fs.String("last", "User", "last name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("create-admin: -email is required")
	}

	password, err := a.readPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if len(password) < 5 {
		return errors.New("create-admin: password must be at least 5 characters")
	}

	p, err := a.auth.Register(ctx, auth.Registration{
		FirstName: *first,
		LastName:  *last,
		Email:     *email,
		Password:  password,
		Role:      domain.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("create-admin: %w", err)
	}

	a.logger.Info("admin created", slog.Int64("user_id", p.ID))
	fmt.Fprintf(a.out, "created admin %s (id %d)\n", p.Email, p.ID)
	return nil
}

func (a *admin) setRole(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("set-role", flag.ContinueOnError)
	email := fs.String("email", "", "user email (required)")
	roleName := fs.String("role", "", "new role: user or admin (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	role, err := domain.ParseRole(*roleName)
	if err != nil {
		return fmt.Errorf("set-role: %w", err)
	}

	user, err := a.users.GetByEmail(ctx, a.auth.NormalizeEmail(*email))
	if err != nil {
		return fmt.Errorf("set-role: %w", err)
	}
	if err := a.updateRole(ctx, user.ID, role); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s is now %s\n", user.Email, role)
	return nil
}

func (a *admin) updateRole(ctx context.Context, id int64, role domain.Role) error {
	user, err := a.users.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load user %d: %w", id, err)
	}
	user.Role = role
	if err := a.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	a.logger.Info("role updated", slog.Int64("user_id", id), slog.String("role", role.String()))
	return nil
}

// promptPassword reads without echo from a terminal, or the first line of
// in otherwise.
func promptPassword(in *os.File, prompt io.Writer) func(string) (string, error) {
	return func(msg string) (string, error) {
		fd := int(in.Fd())
		if term.IsTerminal(fd) {
			fmt.Fprint(prompt, msg)
			b, err := term.ReadPassword(fd)
			fmt.Fprintln(prompt)
			return string(b), err
		}
		return readLine(in)
	}
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
