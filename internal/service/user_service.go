package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/scribe-api/internal/domain"
	"github.com/phrazzld/scribe-api/internal/platform/logger"
	"github.com/phrazzld/scribe-api/internal/service/auth"
	"github.com/phrazzld/scribe-api/internal/store"
)

// Credentials is the part of the auth service that user management needs.
// *auth.Service satisfies it.
type Credentials interface {
	// NormalizeEmail applies the configured email matching policy.
	NormalizeEmail(email string) string

	// SetPassword stores a fresh salt and hash of plaintext on user.
	SetPassword(user *domain.User, plaintext string) error
}

// UserPatch holds the fields of a partial user update. Nil fields are left
// unchanged.
type UserPatch struct {
	FirstName   *string
	LastName    *string
	Email       *string
	DateOfBirth *time.Time
	Role        *domain.Role
	Password    *string
}

func (p UserPatch) empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil &&
		p.DateOfBirth == nil && p.Role == nil && p.Password == nil
}

// UserService provides user management operations. Every result is the
// public view of a user.
type UserService interface {
	// ListUsers returns users matching filter ordered by id.
	ListUsers(ctx context.Context, filter store.UserFilter) ([]domain.Principal, error)

	// GetUser returns store.ErrUserNotFound if the user does not exist.
	GetUser(ctx context.Context, id int64) (domain.Principal, error)

	// UpdateUser applies patch to user id if actor may mutate that user.
	// Only admins may change a role.
	UpdateUser(ctx context.Context, actor domain.Principal, id int64, patch UserPatch) (domain.Principal, error)

	// DeleteUser detaches the user's posts and deletes the user in one
	// transaction, returning the deleted user.
	DeleteUser(ctx context.Context, actor domain.Principal, id int64) (domain.Principal, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	users  store.UserStore
	posts  store.PostStore
	creds  Credentials
	db     *sql.DB
	logger *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	users store.UserStore,
	posts store.PostStore,
	creds Credentials,
	db *sql.DB,
	logger *slog.Logger,
) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{
		users:  users,
		posts:  posts,
		creds:  creds,
		db:     db,
		logger: logger.With(slog.String("component", "user_service")),
	}
}

// ListUsers implements UserService
func (s *UserServiceImpl) ListUsers(ctx context.Context, filter store.UserFilter) ([]domain.Principal, error) {
	if filter.Email != "" {
		filter.Email = s.creds.NormalizeEmail(filter.Email)
	}

	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, NewUserServiceError("list_users", "failed to list users", err)
	}

	out := make([]domain.Principal, 0, len(users))
	for _, u := range users {
		out = append(out, u.Principal())
	}
	return out, nil
}

// GetUser implements UserService
func (s *UserServiceImpl) GetUser(ctx context.Context, id int64) (domain.Principal, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return domain.Principal{}, store.ErrUserNotFound
		}
		return domain.Principal{}, NewUserServiceError("get_user", "failed to retrieve user", err)
	}
	return user.Principal(), nil
}

// UpdateUser implements UserService
// Uses a transaction so the read and write see the same row
func (s *UserServiceImpl) UpdateUser(
	ctx context.Context,
	actor domain.Principal,
	id int64,
	patch UserPatch,
) (domain.Principal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if patch.empty() {
		return domain.Principal{}, ErrEmptyPatch
	}
	if err := auth.Authorize(actor, domain.Ownership{ResourceID: id, OwnerID: id}); err != nil {
		log.Debug("user update denied", slog.Int64("target_id", id), slog.Int64("user_id", actor.ID))
		return domain.Principal{}, err
	}

	// Hash outside the transaction; the KDF is the slow part.
	var creds domain.User
	if patch.Password != nil {
		if err := s.creds.SetPassword(&creds, *patch.Password); err != nil {
			return domain.Principal{}, err
		}
	}

	var updated *domain.User
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txUsers := s.users.WithTx(tx)

		user, err := txUsers.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if patch.Role != nil && *patch.Role != user.Role {
			if !actor.Role.IsAdmin() {
				return ErrRoleChange
			}
			if !patch.Role.Valid() {
				return fmt.Errorf("%w: %q", domain.ErrInvalidRole, *patch.Role)
			}
			user.Role = *patch.Role
		}
		if patch.FirstName != nil {
			user.FirstName = strings.TrimSpace(*patch.FirstName)
		}
		if patch.LastName != nil {
			user.LastName = strings.TrimSpace(*patch.LastName)
		}
		if patch.Email != nil {
			user.Email = s.creds.NormalizeEmail(*patch.Email)
		}
		if patch.DateOfBirth != nil {
			dob := *patch.DateOfBirth
			user.DateOfBirth = &dob
		}
		if patch.Password != nil {
			user.Salt = creds.Salt
			user.PasswordHash = creds.PasswordHash
		}

		if err := user.Validate(); err != nil {
			return err
		}
		user.UpdatedAt = time.Now().UTC()

		if err := txUsers.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return domain.Principal{}, s.userError("update_user", "failed to update user", err)
	}

	log.Info("user updated",
		slog.Int64("target_id", id),
		slog.Int64("user_id", actor.ID),
		slog.Bool("password_changed", patch.Password != nil))
	return updated.Principal(), nil
}

// DeleteUser implements UserService
func (s *UserServiceImpl) DeleteUser(ctx context.Context, actor domain.Principal, id int64) (domain.Principal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := auth.Authorize(actor, domain.Ownership{ResourceID: id, OwnerID: id}); err != nil {
		log.Debug("user delete denied", slog.Int64("target_id", id), slog.Int64("user_id", actor.ID))
		return domain.Principal{}, err
	}

	var deleted *domain.User
	var detached int64
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txUsers := s.users.WithTx(tx)

		user, err := txUsers.GetByID(ctx, id)
		if err != nil {
			return err
		}

		detached, err = s.posts.WithTx(tx).ClearAuthor(ctx, id)
		if err != nil {
			return err
		}

		if err := txUsers.Delete(ctx, id); err != nil {
			return err
		}
		deleted = user
		return nil
	})
	if err != nil {
		return domain.Principal{}, s.userError("delete_user", "failed to delete user", err)
	}

	log.Info("user deleted",
		slog.Int64("target_id", id),
		slog.Int64("user_id", actor.ID),
		slog.Int64("posts_detached", detached))
	return deleted.Principal(), nil
}

// userError passes expected conditions through and wraps everything else.
func (s *UserServiceImpl) userError(op, msg string, err error) error {
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		return store.ErrUserNotFound
	case errors.Is(err, store.ErrEmailExists):
		return auth.ErrDuplicateIdentity
	case errors.Is(err, auth.ErrForbidden),
		errors.Is(err, domain.ErrInvalidRole),
		isValidationError(err):
		return err
	default:
		return NewUserServiceError(op, msg, err)
	}
}

func isValidationError(err error) bool {
	for _, target := range []error{
		domain.ErrEmptyFirstName,
		domain.ErrEmptyLastName,
		domain.ErrEmptyEmail,
		domain.ErrInvalidEmail,
		domain.ErrFutureDateOfBirth,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
