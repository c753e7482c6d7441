package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/phrazzld/scribe-api/internal/api/shared"
	"github.com/phrazzld/scribe-api/internal/domain"
	"github.com/phrazzld/scribe-api/internal/service/auth"
)

// TokenAuthenticator resolves a bearer token to a principal.
// *auth.Service satisfies it.
type TokenAuthenticator interface {
	AuthenticateToken(ctx context.Context, token string) (auth.Outcome, error)
}

// AuthMiddleware provides bearer token authentication for routes.
type AuthMiddleware struct {
	authenticator TokenAuthenticator
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(authenticator TokenAuthenticator) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator}
}

// Authenticate validates the bearer token from the Authorization header and
// adds the resolved principal to the request context. Requests without a
// valid token never reach next.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w, r, "Invalid authorization format", auth.ErrMissingToken)
			return
		}

		out, err := m.authenticator.AuthenticateToken(r.Context(), token)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
			return
		}
		if !out.OK {
			unauthorized(w, r, rejectionMessage(out.Reason), out.Reason)
			return
		}

		ctx := shared.WithPrincipal(r.Context(), out.Principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetPrincipal extracts the authenticated principal from the request context.
func GetPrincipal(r *http.Request) (domain.Principal, bool) {
	return shared.PrincipalFromContext(r.Context())
}

// bearerToken parses "Bearer <token>". The scheme is case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func rejectionMessage(reason error) string {
	switch {
	case errors.Is(reason, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(reason, auth.ErrPrincipalNotFound):
		return "User no longer exists"
	default:
		return "Invalid token"
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, message string, reason error) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="scribe"`)
	shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, message, reason, shared.WithElevatedLogLevel())
}
