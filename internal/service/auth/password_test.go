package auth

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgon2HasherRoundTrip(t *testing.T) {
	t.Parallel()

	h := NewArgon2Hasher(testArgon2)
	passwords := []string{"hunter22", "p", "correct horse battery staple", "pässwörd", ""}

	for _, pw := range passwords {
		salt, err := h.NewSalt()
		require.NoError(t, err)

		digest, err := h.Hash(pw, salt)
		require.NoError(t, err)

		again, err := h.Hash(pw, salt)
		require.NoError(t, err)
		assert.Equal(t, digest, again, "hash must be deterministic")

		ok, err := h.Verify(pw, salt, digest)
		require.NoError(t, err)
		assert.True(t, ok, "password %q should verify", pw)
	}
}

func TestArgon2HasherDistinguishesInputs(t *testing.T) {
	t.Parallel()

	h := NewArgon2Hasher(testArgon2)
	salt, err := h.NewSalt()
	require.NoError(t, err)

	corpus := []string{"hunter22", "hunter23", "Hunter22", "hunter22 ", "abcde", "abcdf"}
	seen := make(map[string]string)
	for _, pw := range corpus {
		d, err := h.Hash(pw, salt)
		require.NoError(t, err)
		if prev, dup := seen[d]; dup {
			t.Fatalf("collision between %q and %q", prev, pw)
		}
		seen[d] = pw
	}

	otherSalt, err := h.NewSalt()
	require.NoError(t, err)
	a, _ := h.Hash("hunter22", salt)
	b, _ := h.Hash("hunter22", otherSalt)
	assert.NotEqual(t, a, b, "different salts must give different digests")

	ok, err := h.Verify("hunter23", salt, a)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArgon2HasherDefects(t *testing.T) {
	t.Parallel()

	h := NewArgon2Hasher(testArgon2)
	salt, err := h.NewSalt()
	require.NoError(t, err)

	var internal *InternalAuthError

	_, err = h.Hash("pw", "")
	assert.True(t, errors.As(err, &internal), "empty salt is a caller defect")

	_, err = h.Hash("pw", "%%% not base64")
	assert.True(t, errors.As(err, &internal))

	_, err = h.Verify("pw", salt, "%%% not base64")
	assert.True(t, errors.As(err, &internal))
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestNewSaltIsRandom(t *testing.T) {
	t.Parallel()

	h := NewArgon2Hasher(testArgon2)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		s, err := h.NewSalt()
		require.NoError(t, err)
		raw, err := base64.StdEncoding.DecodeString(s)
		require.NoError(t, err)
		assert.Len(t, raw, saltBytes)
		assert.False(t, seen[s], "salt reused")
		seen[s] = true
	}
}
