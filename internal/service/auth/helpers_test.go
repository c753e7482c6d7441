package auth

import (
	"testing"
	"time"

	"github.com/phrazzld/scribe-api/internal/config"
	"github.com/phrazzld/scribe-api/internal/domain"
	"github.com/phrazzld/scribe-api/internal/mocks"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

// Cheap cost parameters keep the suite fast; the algorithm is unchanged.
var testArgon2 = config.Argon2Config{Time: 1, MemoryKiB: 64, Threads: 1, KeyLen: 32}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            testSecret,
		TokenLifetimeMinutes: 60,
		Argon2:               testArgon2,
	}
}

func newMemStore() *mocks.MockUserStore {
	return mocks.NewMockUserStore()
}

func setRole(s *mocks.MockUserStore, id int64, role domain.Role) {
	s.Mutate(id, func(u *domain.User) { u.Role = role })
}

func newTestService(t *testing.T, s CredentialStore, mutate func(*config.AuthConfig)) *Service {
	t.Helper()
	cfg := testAuthConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	codec, err := NewTokenCodec(cfg.JWTSecret)
	require.NoError(t, err)
	return NewService(s, NewArgon2Hasher(cfg.Argon2), codec, cfg, nil)
}

func aliceRegistration() Registration {
	dob := time.Date(1991, time.June, 2, 0, 0, 0, 0, time.UTC)
	return Registration{
		FirstName:   "Alice",
		LastName:    "Liddell",
		Email:       "alice@example.com",
		Password:    "hunter22",
		DateOfBirth: &dob,
	}
}
