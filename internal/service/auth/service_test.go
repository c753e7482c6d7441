package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/scribe-api/internal/domain"
	"github.com/phrazzld/scribe-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterThenLogin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newMemStore()
	svc := newTestService(t, s, nil)

	p, err := svc.Register(ctx, aliceRegistration())
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, domain.RoleUser, p.Role)

	stored, err := s.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", stored.PasswordHash, "plaintext must never be stored")
	assert.NotEmpty(t, stored.Salt)

	out, err := svc.AuthenticateBasic(ctx, "alice@example.com", "hunter22")
	require.NoError(t, err)
	require.True(t, out.OK)
	assert.Equal(t, p.ID, out.Principal.ID)
}

func TestRegisterUsesFreshSaltPerUser(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newMemStore()
	svc := newTestService(t, s, nil)

	a, err := svc.Register(ctx, aliceRegistration())
	require.NoError(t, err)
	reg := aliceRegistration()
	reg.Email = "alice2@example.com"
	b, err := svc.Register(ctx, reg)
	require.NoError(t, err)

	ua, _ := s.GetByID(ctx, a.ID)
	ub, _ := s.GetByID(ctx, b.ID)
	assert.NotEqual(t, ua.Salt, ub.Salt)
	assert.NotEqual(t, ua.PasswordHash, ub.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestService(t, newMemStore(), nil)

	_, err := svc.Register(ctx, aliceRegistration())
	require.NoError(t, err)

	reg := aliceRegistration()
	reg.Email = "ALICE@example.com"
	_, err = svc.Register(ctx, reg)
	assert.ErrorIs(t, err, ErrDuplicateIdentity)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newMemStore(), nil)
	reg := aliceRegistration()
	reg.Email = "not-an-email"

	_, err := svc.Register(context.Background(), reg)
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	var internal *InternalAuthError
	assert.False(t, errors.As(err, &internal))
}

func TestRegisterStoreFailureIsInternal(t *testing.T) {
	t.Parallel()

	s := newMemStore()
	s.SetErr(errors.New("disk full"))
	svc := newTestService(t, s, nil)

	_, err := svc.Register(context.Background(), aliceRegistration())
	var internal *InternalAuthError
	require.True(t, errors.As(err, &internal))
	assert.Equal(t, "create user", internal.Op)
}

func TestSignTokenExpiry(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newMemStore(), nil)
	now := time.Date(2025, 3, 1, 9, 30, 15, 500, time.UTC)
	svc.timeFunc = func() time.Time { return now }

	issued, err := svc.SignToken(context.Background(), domain.Principal{ID: 4, Role: domain.RoleUser})
	require.NoError(t, err)
	assert.NotEmpty(t, issued.Token)
	assert.Equal(t, now.Truncate(time.Second).Add(time.Hour), issued.ExpiresAt)

	var claims jwtClaims
	_, _, err = jwt.NewParser().ParseUnverified(issued.Token, &claims)
	require.NoError(t, err)
	assert.Equal(t, "4", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestServiceGuardDelegates(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newMemStore(), nil)
	user := domain.Principal{ID: 1, Role: domain.RoleUser}
	admin := domain.Principal{ID: 2, Role: domain.RoleAdmin}

	assert.False(t, svc.CanMutate(user, 2))
	assert.True(t, svc.CanMutate(admin, 1))
	assert.ErrorIs(t, svc.Authorize(user, domain.Ownership{ResourceID: 5, OwnerID: 2}), ErrForbidden)
	assert.Equal(t, "bob@example.com", svc.NormalizeEmail(" Bob@Example.com "))
}

func TestRegisterWithInitialRole(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newMemStore()
	svc := newTestService(t, s, nil)

	plain, err := svc.Register(ctx, aliceRegistration())
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, plain.Role)

	adminReg := aliceRegistration()
	adminReg.Email = "queen@example.com"
	adminReg.Role = domain.RoleAdmin
	admin, err := svc.Register(ctx, adminReg)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)

	stored, err := s.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, stored.Role)

	bad := aliceRegistration()
	bad.Email = "root@example.com"
	bad.Role = "root"
	_, err = svc.Register(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	_, err = s.GetByEmail(ctx, "root@example.com")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}
