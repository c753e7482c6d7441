package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/scribe-api/internal/domain"
	"github.com/phrazzld/scribe-api/internal/platform/logger"
	"github.com/phrazzld/scribe-api/internal/store"
)

const postColumns = `id, title, content, user_id, created_at, updated_at`

// PostStore implements store.PostStore.
type PostStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

// NewPostStore creates a PostStore. If logger is nil, slog.Default is used.
func NewPostStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *PostStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "post_store")),
	}
}

var _ store.PostStore = (*PostStore)(nil)

// Create implements store.PostStore.Create
func (s *PostStore) Create(ctx context.Context, post *domain.Post) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := post.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := s.dialect.Rebind(`
		INSERT INTO posts (title, content, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`)

	err := s.db.QueryRowContext(ctx, query,
		post.Title,
		post.Content,
		nullableID(post.UserID),
		toMillis(post.CreatedAt),
		toMillis(post.UpdatedAt),
	).Scan(&post.ID)
	if err != nil {
		log.Error("failed to create post", slog.String("error", err.Error()))
		return store.NewStoreError("post", "create", "insert failed", MapError(err))
	}

	log.Info("post created", slog.Int64("post_id", post.ID))
	return nil
}

// GetByID implements store.PostStore.GetByID
func (s *PostStore) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	query := s.dialect.Rebind(`SELECT ` + postColumns + ` FROM posts WHERE id = ?`)

	post, err := scanPost(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrPostNotFound
		}
		return nil, store.NewStoreError("post", "get", "query failed", MapError(err))
	}
	return post, nil
}

// List implements store.PostStore.List
func (s *PostStore) List(ctx context.Context, offset, limit int) ([]*domain.Post, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total); err != nil {
		return nil, 0, store.NewStoreError("post", "list", "count failed", MapError(err))
	}

	query := s.dialect.Rebind(`SELECT ` + postColumns + ` FROM posts ORDER BY id LIMIT ? OFFSET ?`)
	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, store.NewStoreError("post", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	posts := make([]*domain.Post, 0, limit)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, store.NewStoreError("post", "list", "scan failed", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, store.NewStoreError("post", "list", "iteration failed", err)
	}
	return posts, total, nil
}

// Update implements store.PostStore.Update
func (s *PostStore) Update(ctx context.Context, post *domain.Post) error {
	if err := post.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	post.UpdatedAt = time.Now().UTC()

	query := s.dialect.Rebind(`UPDATE posts SET title = ?, content = ?, updated_at = ? WHERE id = ?`)
	result, err := s.db.ExecContext(ctx, query, post.Title, post.Content, toMillis(post.UpdatedAt), post.ID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update post",
			slog.Int64("post_id", post.ID),
			slog.String("error", err.Error()))
		return store.NewStoreError("post", "update", "update failed", MapError(err))
	}
	return checkRowsAffected(result, store.ErrPostNotFound)
}

// Delete implements store.PostStore.Delete
func (s *PostStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, s.dialect.Rebind(`DELETE FROM posts WHERE id = ?`), id)
	if err != nil {
		return store.NewStoreError("post", "delete", "delete failed", MapError(err))
	}
	return checkRowsAffected(result, store.ErrPostNotFound)
}

// ClearAuthor implements store.PostStore.ClearAuthor
func (s *PostStore) ClearAuthor(ctx context.Context, userID int64) (int64, error) {
	query := s.dialect.Rebind(`UPDATE posts SET user_id = NULL, updated_at = ? WHERE user_id = ?`)
	result, err := s.db.ExecContext(ctx, query, toMillis(time.Now()), userID)
	if err != nil {
		return 0, store.NewStoreError("post", "clear author", "update failed", MapError(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// WithTx implements store.PostStore.WithTx
func (s *PostStore) WithTx(tx *sql.Tx) store.PostStore {
	return &PostStore{db: tx, dialect: s.dialect, logger: s.logger}
}

func scanPost(row rowScanner) (*domain.Post, error) {
	var (
		p         domain.Post
		userID    sql.NullInt64
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &userID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if userID.Valid {
		id := userID.Int64
		p.UserID = &id
	}
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)
	return &p, nil
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}
