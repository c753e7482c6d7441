package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/scribe-api/internal/domain"
)

// PostStore defines the interface for post data persistence.
type PostStore interface {
	// Create inserts the post and assigns post.ID.
	Create(ctx context.Context, post *domain.Post) error

	// GetByID returns ErrPostNotFound if the post does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Post, error)

	// List returns one page of posts ordered by id together with the total
	// number of posts.
	List(ctx context.Context, offset, limit int) ([]*domain.Post, int, error)

	// Update writes title and content. Returns ErrPostNotFound.
	Update(ctx context.Context, post *domain.Post) error

	// Delete returns ErrPostNotFound if the post does not exist.
	Delete(ctx context.Context, id int64) error

	// ClearAuthor detaches every post written by userID and returns the
	// number of posts changed.
	ClearAuthor(ctx context.Context, userID int64) (int64, error)

	// WithTx returns a PostStore bound to tx.
	WithTx(tx *sql.Tx) PostStore
}
