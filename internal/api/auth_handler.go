package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/scribe-api/internal/api/shared"
	"github.com/phrazzld/scribe-api/internal/domain"
	"github.com/phrazzld/scribe-api/internal/platform/logger"
	"github.com/phrazzld/scribe-api/internal/service/auth"
)

// AuthService is the part of *auth.Service used by AuthHandler.
type AuthService interface {
	AuthenticateBasic(ctx context.Context, username, password string) (auth.Outcome, error)
	SignToken(ctx context.Context, p domain.Principal) (auth.IssuedToken, error)
	Register(ctx context.Context, r auth.Registration) (domain.Principal, error)
}

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	auth   AuthService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(authService AuthService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		auth:   authService,
		logger: logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !parseAndValidateRequest(w, r, &req) {
		return
	}

	dob, err := shared.ParseDate(req.DateOfBirth)
	if err != nil {
		HandleAPIError(w, r, domain.NewValidationError("dateOfBirth", "has invalid format", domain.ErrValidation), "")
		return
	}

	principal, err := h.auth.Register(r.Context(), auth.Registration{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    req.Password,
		DateOfBirth: dob,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	h.respondWithToken(w, r, http.StatusCreated, principal)
}

// Login handles POST /login. Credentials come from the HTTP Basic
// Authorization header, or from a JSON body when the header is absent.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	username, password, ok := r.BasicAuth()
	if !ok && r.ContentLength == 0 {
		h.rejectLogin(w, r, auth.ErrInvalidCredentials)
		return
	}
	if !ok {
		var req LoginRequest
		if !parseAndValidateRequest(w, r, &req) {
			return
		}
		username, password = req.Email, req.Password
	}

	out, err := h.auth.AuthenticateBasic(r.Context(), username, password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}
	if !out.OK {
		log.Debug("login rejected")
		h.rejectLogin(w, r, out.Reason)
		return
	}

	h.respondWithToken(w, r, http.StatusOK, out.Principal)
}

// rejectLogin answers 401 with a Basic challenge. The reason is logged
// but the client only sees "Invalid credentials".
func (h *AuthHandler) rejectLogin(w http.ResponseWriter, r *http.Request, reason error) {
	w.Header().Set("WWW-Authenticate", `Basic realm="scribe", charset="UTF-8"`)
	HandleAPIError(w, r, reason, "")
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, r *http.Request, status int, p domain.Principal) {
	issued, err := h.auth.SignToken(r.Context(), p)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, status, AuthResponse{
		User:        userToResponse(p),
		AccessToken: issued.Token,
		ExpiresAt:   issued.ExpiresAt.UTC().Format(time.RFC3339),
	})
}
