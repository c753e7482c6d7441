package auth

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/phrazzld/scribe-api/internal/config"
	"github.com/phrazzld/scribe-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicStrategy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newMemStore()
	svc := newTestService(t, s, nil)

	registered, err := svc.Register(ctx, aliceRegistration())
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
		wantOK   bool
	}{
		{"correct credentials", "alice@example.com", "hunter22", true},
		{"email differs only in case", "Alice@Example.COM", "hunter22", true},
		{"surrounding whitespace", "  alice@example.com ", "hunter22", true},
		{"wrong password", "alice@example.com", "hunter23", false},
		{"unknown user", "bob@example.com", "hunter22", false},
		{"empty password", "alice@example.com", "", false},
		{"empty username", "", "hunter22", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := svc.AuthenticateBasic(ctx, tt.username, tt.password)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, out.OK)
			if tt.wantOK {
				assert.Equal(t, registered.ID, out.Principal.ID)
				assert.Nil(t, out.Reason)
				return
			}
			assert.ErrorIs(t, out.Reason, ErrInvalidCredentials)
			assert.Zero(t, out.Principal)
		})
	}
}

func TestBasicStrategyDoesNotRevealWhichPartFailed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestService(t, newMemStore(), nil)
	_, err := svc.Register(ctx, aliceRegistration())
	require.NoError(t, err)

	unknown, err := svc.AuthenticateBasic(ctx, "nobody@example.com", "hunter22")
	require.NoError(t, err)
	wrong, err := svc.AuthenticateBasic(ctx, "alice@example.com", "nope!")
	require.NoError(t, err)

	assert.Equal(t, unknown.OK, wrong.OK)
	assert.Equal(t, unknown.Principal, wrong.Principal)
	assert.ErrorIs(t, unknown.Reason, ErrInvalidCredentials)
	assert.ErrorIs(t, wrong.Reason, ErrInvalidCredentials)
}

func TestBasicStrategyCaseSensitiveEmails(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestService(t, newMemStore(), func(c *config.AuthConfig) { c.EmailCaseSensitive = true })

	reg := aliceRegistration()
	reg.Email = "Alice@Example.com"
	p, err := svc.Register(ctx, reg)
	require.NoError(t, err)
	assert.Equal(t, "Alice@Example.com", p.Email, "case is preserved")

	out, err := svc.AuthenticateBasic(ctx, "Alice@Example.com", "hunter22")
	require.NoError(t, err)
	assert.True(t, out.OK)

	out, err = svc.AuthenticateBasic(ctx, "alice@example.com", "hunter22")
	require.NoError(t, err)
	assert.False(t, out.OK)
}

func TestBasicStrategyStoreFailureIsInternal(t *testing.T) {
	t.Parallel()

	s := newMemStore()
	s.SetErr(errors.New("connection reset by peer"))
	svc := newTestService(t, s, nil)

	_, err := svc.AuthenticateBasic(context.Background(), "alice@example.com", "hunter22")
	var internal *InternalAuthError
	require.True(t, errors.As(err, &internal))
	assert.Equal(t, "lookup credentials", internal.Op)
}

func TestBasicStrategyCorruptDigestIsInternal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newMemStore()
	svc := newTestService(t, s, nil)
	p, err := svc.Register(ctx, aliceRegistration())
	require.NoError(t, err)

	s.Mutate(p.ID, func(u *domain.User) { u.PasswordHash = "***" })

	out, err := svc.AuthenticateBasic(ctx, "alice@example.com", "hunter22")
	assert.False(t, out.OK)
	var internal *InternalAuthError
	assert.True(t, errors.As(err, &internal))
}

func TestPrincipalCarriesNoSecrets(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestService(t, newMemStore(), nil)
	_, err := svc.Register(ctx, aliceRegistration())
	require.NoError(t, err)

	out, err := svc.AuthenticateBasic(ctx, "alice@example.com", "hunter22")
	require.NoError(t, err)
	require.True(t, out.OK)

	raw, err := json.Marshal(out.Principal)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, forbidden := range []string{"passwordHash", "password_hash", "password", "salt"} {
		assert.NotContains(t, fields, forbidden)
	}
}

func TestTokenStrategy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newMemStore()
	svc := newTestService(t, s, nil)

	p, err := svc.Register(ctx, aliceRegistration())
	require.NoError(t, err)
	issued, err := svc.SignToken(ctx, p)
	require.NoError(t, err)

	out, err := svc.AuthenticateToken(ctx, issued.Token)
	require.NoError(t, err)
	require.True(t, out.OK)
	assert.Equal(t, p, out.Principal)

	t.Run("role change applies immediately", func(t *testing.T) {
		setRole(s, p.ID, domain.RoleAdmin)
		t.Cleanup(func() { setRole(s, p.ID, domain.RoleUser) })

		out, err := svc.AuthenticateToken(ctx, issued.Token)
		require.NoError(t, err)
		require.True(t, out.OK)
		assert.Equal(t, domain.RoleAdmin, out.Principal.Role)
	})

	t.Run("invalid role is a data integrity defect", func(t *testing.T) {
		setRole(s, p.ID, "root")
		t.Cleanup(func() { setRole(s, p.ID, domain.RoleUser) })

		_, err := svc.AuthenticateToken(ctx, issued.Token)
		assert.ErrorIs(t, err, domain.ErrInvalidRole)
	})

	t.Run("garbage token", func(t *testing.T) {
		out, err := svc.AuthenticateToken(ctx, "garbage")
		require.NoError(t, err)
		assert.False(t, out.OK)
		assert.ErrorIs(t, out.Reason, ErrInvalidToken)
	})

	t.Run("missing token", func(t *testing.T) {
		out, err := svc.AuthenticateToken(ctx, "")
		require.NoError(t, err)
		assert.False(t, out.OK)
		assert.ErrorIs(t, out.Reason, ErrMissingToken)
	})
}

func TestTokenStrategyRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newMemStore()
	svc := newTestService(t, s, nil)
	p, err := svc.Register(ctx, aliceRegistration())
	require.NoError(t, err)

	svc.timeFunc = func() time.Time { return time.Now().Add(-3 * time.Hour) }
	issued, err := svc.SignToken(ctx, p)
	require.NoError(t, err)

	out, err := svc.AuthenticateToken(ctx, issued.Token)
	require.NoError(t, err)
	assert.False(t, out.OK)
	assert.ErrorIs(t, out.Reason, ErrExpiredToken)
}

func TestTokenStrategyStoreFailureIsInternal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newMemStore()
	svc := newTestService(t, s, nil)
	issued, err := svc.SignToken(ctx, domain.Principal{ID: 3, Role: domain.RoleUser})
	require.NoError(t, err)

	s.SetErr(errors.New("pool exhausted"))

	_, err = svc.AuthenticateToken(ctx, issued.Token)
	var internal *InternalAuthError
	require.True(t, errors.As(err, &internal))
	assert.Equal(t, "resolve principal", internal.Op)
}
