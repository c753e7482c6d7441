package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/scribe-api/internal/domain"
	"github.com/phrazzld/scribe-api/internal/platform/logger"
	"github.com/phrazzld/scribe-api/internal/store"
)

// CredentialStore is the slice of the user store the auth core consumes.
type CredentialStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
}

// Outcome is the result of an authentication attempt. When OK is false,
// Reason wraps ErrInvalidCredentials, ErrInvalidToken or
// ErrPrincipalNotFound and carries detail meant for server logs only.
type Outcome struct {
	OK        bool
	Principal domain.Principal
	Reason    error
}

func accepted(p domain.Principal) Outcome {
	return Outcome{OK: true, Principal: p}
}

func rejected(reason error) Outcome {
	return Outcome{Reason: reason}
}

// dummySalt keeps the unknown-user path doing the same hashing work as the
// wrong-password path.
const dummySalt = "c2NyaWJlLXRpbWluZy1wYWQ="

// EmailNormalizer canonicalizes an email before storage and lookup.
type EmailNormalizer func(string) string

// NewEmailNormalizer returns exact matching (trim only) when caseSensitive,
// otherwise trim plus lower-casing.
func NewEmailNormalizer(caseSensitive bool) EmailNormalizer {
	if caseSensitive {
		return strings.TrimSpace
	}
	return func(email string) string {
		return strings.ToLower(strings.TrimSpace(email))
	}
}

// BasicStrategy verifies an email/password pair.
type BasicStrategy struct {
	store     CredentialStore
	hasher    PasswordHasher
	normalize EmailNormalizer
	logger    *slog.Logger
}

// NewBasicStrategy creates a BasicStrategy.
func NewBasicStrategy(s CredentialStore, h PasswordHasher, normalize EmailNormalizer, logger *slog.Logger) *BasicStrategy {
	if logger == nil {
		logger = slog.Default()
	}
	if normalize == nil {
		normalize = NewEmailNormalizer(false)
	}
	return &BasicStrategy{
		store:     s,
		hasher:    h,
		normalize: normalize,
		logger:    logger.With(slog.String("component", "basic_auth")),
	}
}

// Authenticate checks username (an email) and password. An unknown user
// and a wrong password yield the same rejected outcome. The error return is
// reserved for *InternalAuthError.
func (s *BasicStrategy) Authenticate(ctx context.Context, username, password string) (Outcome, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	email := s.normalize(username)
	if email == "" || password == "" {
		return rejected(fmt.Errorf("%w: empty username or password", ErrInvalidCredentials)), nil
	}

	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if !store.IsNotFoundError(err) {
			return Outcome{}, internalError("lookup credentials", err)
		}
		if _, err := s.hasher.Hash(password, dummySalt); err != nil {
			return Outcome{}, internalError("hash password", err)
		}
		log.Debug("basic auth rejected: unknown email")
		return rejected(fmt.Errorf("%w: no user for email", ErrInvalidCredentials)), nil
	}

	ok, err := s.hasher.Verify(password, user.Salt, user.PasswordHash)
	if err != nil {
		return Outcome{}, internalError("verify password", err)
	}
	if !ok {
		log.Debug("basic auth rejected: password mismatch", slog.Int64("user_id", user.ID))
		return rejected(fmt.Errorf("%w: password mismatch for user %d", ErrInvalidCredentials, user.ID)), nil
	}

	p, err := publicView(user)
	if err != nil {
		return Outcome{}, err
	}
	return accepted(p), nil
}

// TokenStrategy verifies a bearer token and re-resolves its user, so that
// deletion and role changes apply before the token expires.
type TokenStrategy struct {
	codec  TokenCodec
	store  CredentialStore
	logger *slog.Logger
}

// NewTokenStrategy creates a TokenStrategy.
func NewTokenStrategy(codec TokenCodec, s CredentialStore, logger *slog.Logger) *TokenStrategy {
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenStrategy{
		codec:  codec,
		store:  s,
		logger: logger.With(slog.String("component", "token_auth")),
	}
}

// Authenticate verifies token. The error return is reserved for
// *InternalAuthError.
func (s *TokenStrategy) Authenticate(ctx context.Context, token string) (Outcome, error) {
	if token == "" {
		return rejected(ErrMissingToken), nil
	}

	claims, err := s.codec.Verify(ctx, token)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return rejected(err), nil
		}
		return Outcome{}, internalError("verify token", err)
	}

	user, err := s.store.GetByID(ctx, claims.UserID)
	if err != nil {
		if store.IsNotFoundError(err) {
			logger.FromContextOrDefault(ctx, s.logger).Debug("token references missing user",
				slog.Int64("user_id", claims.UserID))
			return rejected(fmt.Errorf("%w: user %d", ErrPrincipalNotFound, claims.UserID)), nil
		}
		return Outcome{}, internalError("resolve principal", err)
	}

	p, err := publicView(user)
	if err != nil {
		return Outcome{}, err
	}
	return accepted(p), nil
}

// publicView projects a credential record onto a Principal, rejecting
// records whose role is outside the known set.
func publicView(u *domain.User) (domain.Principal, error) {
	if !u.Role.Valid() {
		return domain.Principal{}, &InternalAuthError{
			Op:  "load principal",
			Err: fmt.Errorf("%w: user %d has role %q", domain.ErrInvalidRole, u.ID, u.Role),
		}
	}
	return u.Principal(), nil
}
