package auth

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scribe-api/internal/config"
	"github.com/phrazzld/scribe-api/internal/domain"
	"github.com/phrazzld/scribe-api/internal/platform/logger"
	"github.com/phrazzld/scribe-api/internal/store"
)

// Registration carries the inputs of a new account.
type Registration struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	DateOfBirth *time.Time

	// Role is the initial role; empty means domain.RoleUser. The HTTP
	// registration endpoint never sets it.
	Role domain.Role
}

// IssuedToken is a signed bearer token and its expiry.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// Service is the surface the HTTP layer uses for authentication and
// authorization decisions.
type Service struct {
	store     CredentialStore
	hasher    PasswordHasher
	codec     TokenCodec
	basic     *BasicStrategy
	token     *TokenStrategy
	normalize EmailNormalizer
	lifetime  time.Duration
	timeFunc  func() time.Time
	logger    *slog.Logger
}

// NewService wires the strategies around a credential store.
func NewService(
	s CredentialStore,
	hasher PasswordHasher,
	codec TokenCodec,
	cfg config.AuthConfig,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	normalize := NewEmailNormalizer(cfg.EmailCaseSensitive)
	lifetime := time.Duration(cfg.TokenLifetimeMinutes) * time.Minute
	if lifetime <= 0 {
		lifetime = time.Hour
	}

	return &Service{
		store:     s,
		hasher:    hasher,
		codec:     codec,
		basic:     NewBasicStrategy(s, hasher, normalize, logger),
		token:     NewTokenStrategy(codec, s, logger),
		normalize: normalize,
		lifetime:  lifetime,
		timeFunc:  time.Now,
		logger:    logger.With(slog.String("component", "auth_service")),
	}
}

// AuthenticateBasic verifies an email/password pair.
func (s *Service) AuthenticateBasic(ctx context.Context, username, password string) (Outcome, error) {
	return s.basic.Authenticate(ctx, username, password)
}

// AuthenticateToken verifies a bearer token.
func (s *Service) AuthenticateToken(ctx context.Context, token string) (Outcome, error) {
	return s.token.Authenticate(ctx, token)
}

// CanMutate is the package-level guard, exposed on the service for callers
// that hold only a *Service.
func (s *Service) CanMutate(p domain.Principal, ownerID int64) bool {
	return CanMutate(p, ownerID)
}

// Authorize returns ErrForbidden when p may not mutate the resource.
func (s *Service) Authorize(p domain.Principal, o domain.Ownership) error {
	return Authorize(p, o)
}

// NormalizeEmail applies the configured email matching policy.
func (s *Service) NormalizeEmail(email string) string {
	return s.normalize(email)
}

// SignToken issues a bearer token for p.
func (s *Service) SignToken(ctx context.Context, p domain.Principal) (IssuedToken, error) {
	now := s.timeFunc().UTC().Truncate(time.Second)
	expires := now.Add(s.lifetime)

	token, err := s.codec.Sign(ctx, Claims{
		UserID:    p.ID,
		Subject:   strconv.FormatInt(p.ID, 10),
		IssuedAt:  now,
		ExpiresAt: expires,
		ID:        uuid.NewString(),
	})
	if err != nil {
		return IssuedToken{}, internalError("sign token", err)
	}
	return IssuedToken{Token: token, ExpiresAt: expires}, nil
}

// SetPassword replaces the credentials of user with a hash of plaintext
// under a fresh salt. The user is not persisted.
func (s *Service) SetPassword(user *domain.User, plaintext string) error {
	salt, err := s.hasher.NewSalt()
	if err != nil {
		return internalError("generate salt", err)
	}
	hash, err := s.hasher.Hash(plaintext, salt)
	if err != nil {
		return internalError("hash password", err)
	}
	user.Salt = salt
	user.PasswordHash = hash
	return nil
}

// Register creates a user with a fresh salt and returns its public view.
// Domain validation errors are returned unchanged; a taken email yields
// ErrDuplicateIdentity.
func (s *Service) Register(ctx context.Context, r Registration) (domain.Principal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(r.FirstName, r.LastName, s.normalize(r.Email), r.DateOfBirth)
	if err != nil {
		return domain.Principal{}, err
	}

	if r.Role != "" {
		role, err := domain.ParseRole(string(r.Role))
		if err != nil {
			return domain.Principal{}, err
		}
		user.Role = role
	}

	if err := s.SetPassword(user, r.Password); err != nil {
		return domain.Principal{}, err
	}

	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("registration rejected: email in use")
			return domain.Principal{}, ErrDuplicateIdentity
		}
		return domain.Principal{}, internalError("create user", err)
	}

	log.Info("user registered", slog.Int64("user_id", user.ID))
	return user.Principal(), nil
}
