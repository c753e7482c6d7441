package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/scribe-api/internal/domain"
	"github.com/phrazzld/scribe-api/internal/platform/logger"
	"github.com/phrazzld/scribe-api/internal/service/auth"
	"github.com/phrazzld/scribe-api/internal/store"
)

// Pagination defaults for ListPosts.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PostPage is one page of the post listing.
type PostPage struct {
	Posts      []*domain.Post
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// PostPatch holds the fields of a partial post update. Nil fields are left
// unchanged.
type PostPatch struct {
	Title   *string
	Content *string
}

// PostService provides post operations.
type PostService interface {
	// ListPosts returns the requested page. Out of range page and limit
	// values are clamped to the defaults.
	ListPosts(ctx context.Context, page, limit int) (PostPage, error)

	// GetPost returns store.ErrPostNotFound if the post does not exist.
	GetPost(ctx context.Context, id int64) (*domain.Post, error)

	// CreatePost stores a post owned by author.
	CreatePost(ctx context.Context, author domain.Principal, title, content string) (*domain.Post, error)

	// UpdatePost applies patch if actor may mutate the post.
	UpdatePost(ctx context.Context, actor domain.Principal, id int64, patch PostPatch) (*domain.Post, error)

	// DeletePost removes the post if actor may mutate it and returns it.
	DeletePost(ctx context.Context, actor domain.Principal, id int64) (*domain.Post, error)
}

type postServiceImpl struct {
	posts  store.PostStore
	logger *slog.Logger
}

// NewPostService creates a new PostService
func NewPostService(posts store.PostStore, logger *slog.Logger) PostService {
	if logger == nil {
		logger = slog.Default()
	}
	return &postServiceImpl{
		posts:  posts,
		logger: logger.With(slog.String("component", "post_service")),
	}
}

// ListPosts implements PostService
func (s *postServiceImpl) ListPosts(ctx context.Context, page, limit int) (PostPage, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	posts, total, err := s.posts.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return PostPage{}, NewPostServiceError("list_posts", "failed to list posts", err)
	}

	return PostPage{
		Posts:      posts,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

// GetPost implements PostService
func (s *postServiceImpl) GetPost(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrPostNotFound) {
			return nil, store.ErrPostNotFound
		}
		return nil, NewPostServiceError("get_post", "failed to retrieve post", err)
	}
	return post, nil
}

// CreatePost implements PostService
func (s *postServiceImpl) CreatePost(
	ctx context.Context,
	author domain.Principal,
	title, content string,
) (*domain.Post, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	post, err := domain.NewPost(title, content, author.ID)
	if err != nil {
		return nil, err
	}

	if err := s.posts.Create(ctx, post); err != nil {
		if errors.Is(err, store.ErrInvalidEntity) {
			// The author vanished between authentication and insert.
			return nil, auth.ErrPrincipalNotFound
		}
		return nil, NewPostServiceError("create_post", "failed to save post", err)
	}

	log.Info("post created", slog.Int64("post_id", post.ID), slog.Int64("user_id", author.ID))
	return post, nil
}

// UpdatePost implements PostService
func (s *postServiceImpl) UpdatePost(
	ctx context.Context,
	actor domain.Principal,
	id int64,
	patch PostPatch,
) (*domain.Post, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if patch.Title == nil && patch.Content == nil {
		return nil, ErrEmptyPatch
	}

	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := auth.Authorize(actor, post.Ownership()); err != nil {
		log.Debug("post update denied", slog.Int64("post_id", id), slog.Int64("user_id", actor.ID))
		return nil, err
	}

	if patch.Title != nil {
		post.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Content != nil {
		post.Content = *patch.Content
	}
	if err := post.Validate(); err != nil {
		return nil, err
	}
	post.UpdatedAt = time.Now().UTC()

	if err := s.posts.Update(ctx, post); err != nil {
		if errors.Is(err, store.ErrPostNotFound) {
			return nil, store.ErrPostNotFound
		}
		return nil, NewPostServiceError("update_post", "failed to save post", err)
	}

	log.Info("post updated", slog.Int64("post_id", id), slog.Int64("user_id", actor.ID))
	return post, nil
}

// DeletePost implements PostService
func (s *postServiceImpl) DeletePost(ctx context.Context, actor domain.Principal, id int64) (*domain.Post, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := auth.Authorize(actor, post.Ownership()); err != nil {
		log.Debug("post delete denied", slog.Int64("post_id", id), slog.Int64("user_id", actor.ID))
		return nil, err
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrPostNotFound) {
			return nil, store.ErrPostNotFound
		}
		return nil, NewPostServiceError("delete_post", "failed to delete post", err)
	}

	log.Info("post deleted", slog.Int64("post_id", id), slog.Int64("user_id", actor.ID))
	return post, nil
}
