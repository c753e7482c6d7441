package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/scribe-api/internal/api/middleware"
	"github.com/phrazzld/scribe-api/internal/api/shared"
	"github.com/phrazzld/scribe-api/internal/domain"
	"github.com/phrazzld/scribe-api/internal/platform/logger"
	"github.com/phrazzld/scribe-api/internal/service"
)

// PostHandler handles post-related HTTP requests
type PostHandler struct {
	posts  service.PostService
	logger *slog.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts service.PostService, logger *slog.Logger) *PostHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for PostHandler")
	}
	return &PostHandler{
		posts:  posts,
		logger: logger.With(slog.String("component", "post_handler")),
	}
}

// ListPosts handles GET /posts?page=&limit=
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	page, err := h.posts.ListPosts(r.Context(), queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list posts")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, pageToResponse(page))
}

// GetPost handles GET /posts/{id}
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePathID(w, r, "id", log)
	if !ok {
		return
	}

	post, err := h.posts.GetPost(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get post")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, postToResponse(post))
}

// CreatePost handles POST /posts. The author is the authenticated principal.
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	principal, ok := middleware.GetPrincipal(r)
	if !ok {
		log.Warn("principal not found in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	var req CreatePostRequest
	if !parseAndValidateRequest(w, r, &req) {
		return
	}

	post, err := h.posts.CreatePost(r.Context(), principal, req.Title, req.Content)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create post")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, postToResponse(post))
}

// UpdatePost handles PATCH /posts/{id}
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	principal, id, ok := handlePrincipalAndPathID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdatePostRequest
	if !parseAndValidateRequest(w, r, &req) {
		return
	}

	post, err := h.posts.UpdatePost(r.Context(), principal, id, service.PostPatch{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update post")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, postToResponse(post))
}

// DeletePost handles DELETE /posts/{id}
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	principal, id, ok := handlePrincipalAndPathID(w, r, "id", log)
	if !ok {
		return
	}

	post, err := h.posts.DeletePost(r.Context(), principal, id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete post")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, DeletePostResponse{
		Message: "Post deleted",
		Post:    postToResponse(post),
	})
}
