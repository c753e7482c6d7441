package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/scribe-api/internal/domain"
)

// UserFilter narrows a user listing. Empty fields are ignored; set fields
// must match exactly.
type UserFilter struct {
	Email     string
	Role      domain.Role
	FirstName string
	LastName  string
}

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create inserts the user and assigns user.ID.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByEmail performs an exact match on the stored email.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update writes every mutable column of user.
	// Returns ErrUserNotFound or ErrEmailExists.
	Update(ctx context.Context, user *domain.User) error

	// Delete returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id int64) error

	// List returns users matching filter ordered by id.
	List(ctx context.Context, filter UserFilter) ([]*domain.User, error)

	// WithTx returns a UserStore bound to tx.
	WithTx(tx *sql.Tx) UserStore
}
