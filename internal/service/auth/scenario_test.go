package auth_test

import (
	"context"
	"sync"
	"testing"

	"github.com/phrazzld/scribe-api/internal/config"
	"github.com/phrazzld/scribe-api/internal/domain"
	"github.com/phrazzld/scribe-api/internal/platform/sqldb"
	"github.com/phrazzld/scribe-api/internal/service/auth"
	"github.com/phrazzld/scribe-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDBService(t *testing.T) (*auth.Service, *sqldb.UserStore) {
	t.Helper()

	db, dialect := testdb.Open(t)

	cfg := config.AuthConfig{
		JWTSecret:            "scenario-secret-that-is-long-enough-1234",
		TokenLifetimeMinutes: 15,
		Argon2:               config.Argon2Config{Time: 1, MemoryKiB: 64, Threads: 1, KeyLen: 32},
	}
	codec, err := auth.NewTokenCodec(cfg.JWTSecret)
	require.NoError(t, err)

	users := sqldb.NewUserStore(db, dialect, nil)
	return auth.NewService(users, auth.NewArgon2Hasher(cfg.Argon2), codec, cfg, nil), users
}

func TestScenarioRegisterLoginTokenRevocation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, users := newDBService(t)

	registered, err := svc.Register(ctx, auth.Registration{
		FirstName: "Alice",
		LastName:  "Liddell",
		Email:     "alice@example.com",
		Password:  "hunter22",
	})
	require.NoError(t, err)

	login, err := svc.AuthenticateBasic(ctx, "alice@example.com", "hunter22")
	require.NoError(t, err)
	require.True(t, login.OK)
	assert.Equal(t, registered.ID, login.Principal.ID)

	issued, err := svc.SignToken(ctx, login.Principal)
	require.NoError(t, err)

	viaToken, err := svc.AuthenticateToken(ctx, issued.Token)
	require.NoError(t, err)
	require.True(t, viaToken.OK)
	assert.Equal(t, login.Principal, viaToken.Principal)

	require.NoError(t, users.Delete(ctx, registered.ID))

	afterDelete, err := svc.AuthenticateToken(ctx, issued.Token)
	require.NoError(t, err)
	assert.False(t, afterDelete.OK)
	assert.ErrorIs(t, afterDelete.Reason, auth.ErrPrincipalNotFound)
}

func TestScenarioConcurrentDuplicateRegistration(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newDBService(t)

	const attempts = 6
	results := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Register(ctx, auth.Registration{
				FirstName: "Bob",
				LastName:  "Builder",
				Email:     "bob@example.com",
				Password:  "canwefixit",
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, auth.ErrDuplicateIdentity)
	}
	assert.Equal(t, 1, succeeded)
}

func TestScenarioDeleteForeignPost(t *testing.T) {
	t.Parallel()

	post := domain.Ownership{ResourceID: 12, OwnerID: 2}

	user := domain.Principal{ID: 1, Role: domain.RoleUser}
	assert.False(t, auth.CanMutate(user, post.OwnerID))
	assert.ErrorIs(t, auth.Authorize(user, post), auth.ErrForbidden)

	admin := domain.Principal{ID: 1, Role: domain.RoleAdmin}
	assert.True(t, auth.CanMutate(admin, post.OwnerID))
	assert.NoError(t, auth.Authorize(admin, post))
}
