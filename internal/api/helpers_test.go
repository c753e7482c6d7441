package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/scribe-api/internal/api/middleware"
	"github.com/phrazzld/scribe-api/internal/config"
	"github.com/phrazzld/scribe-api/internal/domain"
	"github.com/phrazzld/scribe-api/internal/mocks"
	"github.com/phrazzld/scribe-api/internal/platform/logger"
	"github.com/phrazzld/scribe-api/internal/service"
	"github.com/phrazzld/scribe-api/internal/service/auth"
	"github.com/phrazzld/scribe-api/internal/store"
	"github.com/stretchr/testify/require"
)

const testSecret = "api-test-secret-that-is-long-enough-123"

// testEnv wires real handlers and services over in-memory stores.
type testEnv struct {
	router  http.Handler
	auth    *auth.Service
	users   *mocks.MockUserStore
	posts   *mocks.MockPostStore
	userSvc *stubUserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	l, _ := logger.GetTestLogger(t)
	cfg := config.AuthConfig{
		JWTSecret:            testSecret,
		TokenLifetimeMinutes: 60,
		Argon2:               config.Argon2Config{Time: 1, MemoryKiB: 64, Threads: 1, KeyLen: 32},
	}
	codec, err := auth.NewTokenCodec(cfg.JWTSecret)
	require.NoError(t, err)

	users := mocks.NewMockUserStore()
	posts := mocks.NewMockPostStore()
	authSvc := auth.NewService(users, auth.NewArgon2Hasher(cfg.Argon2), codec, cfg, l)
	userSvc := &stubUserService{}

	authHandler := NewAuthHandler(authSvc, l)
	postHandler := NewPostHandler(service.NewPostService(posts, l), l)
	userHandler := NewUserHandler(userSvc, l)
	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	r := chi.NewRouter()
	r.Use(middleware.NewTraceMiddleware(l))
	r.Post("/login", authHandler.Login)
	r.Post("/register", authHandler.Register)
	r.Get("/posts", postHandler.ListPosts)
	r.Get("/posts/{id}", postHandler.GetPost)
	r.Get("/users", userHandler.ListUsers)
	r.Get("/users/{id}", userHandler.GetUser)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Post("/posts", postHandler.CreatePost)
		r.Patch("/posts/{id}", postHandler.UpdatePost)
		r.Delete("/posts/{id}", postHandler.DeletePost)
		r.Patch("/users/{id}", userHandler.UpdateUser)
		r.Delete("/users/{id}", userHandler.DeleteUser)
	})

	return &testEnv{router: r, auth: authSvc, users: users, posts: posts, userSvc: userSvc}
}

// register creates a user and returns its principal and a bearer token.
func (e *testEnv) register(t *testing.T, first, email string) (domain.Principal, string) {
	t.Helper()
	ctx := context.Background()
	p, err := e.auth.Register(ctx, auth.Registration{
		FirstName: first,
		LastName:  "Tester",
		Email:     email,
		Password:  "hunter22",
	})
	require.NoError(t, err)
	issued, err := e.auth.SignToken(ctx, p)
	require.NoError(t, err)
	return p, issued.Token
}

func (e *testEnv) promote(id int64) {
	e.users.Mutate(id, func(u *domain.User) { u.Role = domain.RoleAdmin })
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

// stubUserService records calls and returns canned results.
type stubUserService struct {
	listFn   func(ctx context.Context, filter store.UserFilter) ([]domain.Principal, error)
	getFn    func(ctx context.Context, id int64) (domain.Principal, error)
	updateFn func(ctx context.Context, actor domain.Principal, id int64, patch service.UserPatch) (domain.Principal, error)
	deleteFn func(ctx context.Context, actor domain.Principal, id int64) (domain.Principal, error)
}

func (s *stubUserService) ListUsers(ctx context.Context, filter store.UserFilter) ([]domain.Principal, error) {
	return s.listFn(ctx, filter)
}

func (s *stubUserService) GetUser(ctx context.Context, id int64) (domain.Principal, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) UpdateUser(
	ctx context.Context,
	actor domain.Principal,
	id int64,
	patch service.UserPatch,
) (domain.Principal, error) {
	return s.updateFn(ctx, actor, id, patch)
}

func (s *stubUserService) DeleteUser(ctx context.Context, actor domain.Principal, id int64) (domain.Principal, error) {
	return s.deleteFn(ctx, actor, id)
}
