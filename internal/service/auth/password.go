package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/phrazzld/scribe-api/internal/config"
	"golang.org/x/crypto/argon2"
)

const saltBytes = 16

// PasswordHasher is a deterministic salted hash.
type PasswordHasher interface {
	// Hash derives a digest from plaintext and a base64 salt. The same inputs
	// always produce the same digest.
	Hash(plaintext, salt string) (string, error)

	// Verify recomputes the digest and compares it to expected in constant
	// time. A mismatch is (false, nil); only defects return an error.
	Verify(plaintext, salt, expected string) (bool, error)

	// NewSalt returns a fresh random salt.
	NewSalt() (string, error)
}

// Argon2Hasher implements PasswordHasher with Argon2id.
type Argon2Hasher struct {
	time      uint32
	memoryKiB uint32
	threads   uint8
	keyLen    uint32
}

var _ PasswordHasher = (*Argon2Hasher)(nil)

// NewArgon2Hasher creates a hasher with the configured cost parameters.
func NewArgon2Hasher(cfg config.Argon2Config) *Argon2Hasher {
	return &Argon2Hasher{
		time:      cfg.Time,
		memoryKiB: cfg.MemoryKiB,
		threads:   cfg.Threads,
		keyLen:    cfg.KeyLen,
	}
}

// Hash implements PasswordHasher.
func (h *Argon2Hasher) Hash(plaintext, salt string) (string, error) {
	digest, err := h.derive(plaintext, salt)
	if err != nil {
		return "", err
	}
	return base64.RawStdEncoding.EncodeToString(digest), nil
}

// Verify implements PasswordHasher.
func (h *Argon2Hasher) Verify(plaintext, salt, expected string) (bool, error) {
	want, err := base64.RawStdEncoding.DecodeString(expected)
	if err != nil {
		return false, &InternalAuthError{Op: "decode stored digest", Err: err}
	}

	got, err := h.derive(plaintext, salt)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

// NewSalt implements PasswordHasher.
func (h *Argon2Hasher) NewSalt() (string, error) {
	b := make([]byte, saltBytes)
	if _, err := rand.Read(b); err != nil {
		return "", &InternalAuthError{Op: "generate salt", Err: err}
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func (h *Argon2Hasher) derive(plaintext, salt string) ([]byte, error) {
	if salt == "" {
		return nil, &InternalAuthError{Op: "hash password", Err: errors.New("empty salt")}
	}
	raw, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return nil, &InternalAuthError{Op: "decode salt", Err: fmt.Errorf("salt is not base64: %w", err)}
	}
	return argon2.IDKey([]byte(plaintext), raw, h.time, h.memoryKiB, h.threads, h.keyLen), nil
}
