package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/scribe-api/internal/platform/logger"
)

const minSecretLength = 32

// Claims is the signed payload of a bearer token. It identifies the
// principal and never carries credential material. Times have second
// precision and are returned in UTC by Verify.
type Claims struct {
	UserID    int64
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}

// TokenCodec signs claims into bearer tokens and verifies them back.
type TokenCodec interface {
	// Sign is deterministic for identical claims and secret.
	Sign(ctx context.Context, claims Claims) (string, error)

	// Verify returns an error wrapping ErrInvalidToken for malformed,
	// tampered, expired or not-yet-valid tokens.
	Verify(ctx context.Context, token string) (*Claims, error)
}

type jwtClaims struct {
	UserID int64 `json:"uid"`
	jwt.RegisteredClaims
}

// hmacTokenCodec implements TokenCodec with HS256.
type hmacTokenCodec struct {
	secret    []byte
	timeFunc  func() time.Time
	clockSkew time.Duration
}

var _ TokenCodec = (*hmacTokenCodec)(nil)

// NewTokenCodec creates an HS256 codec. The secret is mandatory.
func NewTokenCodec(secret string) (TokenCodec, error) {
	return newTokenCodec(secret, time.Now)
}

func newTokenCodec(secret string, timeFunc func() time.Time) (*hmacTokenCodec, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d characters", minSecretLength)
	}
	return &hmacTokenCodec{
		secret:    []byte(secret),
		timeFunc:  timeFunc,
		clockSkew: 2 * time.Minute,
	}, nil
}

// Sign implements TokenCodec.
func (c *hmacTokenCodec) Sign(ctx context.Context, claims Claims) (string, error) {
	if claims.UserID <= 0 {
		return "", &InternalAuthError{Op: "sign token", Err: errors.New("claims carry no user id")}
	}
	if claims.ExpiresAt.IsZero() {
		return "", &InternalAuthError{Op: "sign token", Err: errors.New("claims carry no expiry")}
	}

	if !wholeSeconds(claims.IssuedAt) || !wholeSeconds(claims.ExpiresAt) {
		return "", &InternalAuthError{Op: "sign token", Err: errors.New("claim times must be whole seconds")}
	}

	registered := jwt.RegisteredClaims{
		Subject:   claims.Subject,
		ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		ID:        claims.ID,
	}
	if !claims.IssuedAt.IsZero() {
		registered.IssuedAt = jwt.NewNumericDate(claims.IssuedAt)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		UserID:           claims.UserID,
		RegisteredClaims: registered,
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		logger.FromContext(ctx).Error("failed to sign token",
			slog.Int64("user_id", claims.UserID),
			slog.String("error", err.Error()))
		return "", &InternalAuthError{Op: "sign token", Err: err}
	}
	return signed, nil
}

// wholeSeconds reports whether t survives the second precision of NumericDate.
func wholeSeconds(t time.Time) bool {
	return t.Nanosecond() == 0
}

// Verify implements TokenCodec.
func (c *hmacTokenCodec) Verify(ctx context.Context, token string) (*Claims, error) {
	log := logger.FromContext(ctx)
	now := c.timeFunc()

	parsed, err := jwt.ParseWithClaims(
		token,
		&jwtClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(c.clockSkew),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		mapped := mapJWTError(err)
		log.Debug("token verification failed", slog.String("reason", mapped.Error()))
		return nil, mapped
	}

	claims, ok := parsed.Claims.(*jwtClaims)
	if !ok || !parsed.Valid || claims.UserID <= 0 {
		return nil, ErrMalformedToken
	}

	out := &Claims{
		UserID:  claims.UserID,
		Subject: claims.Subject,
		ID:      claims.ID,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return out, nil
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return ErrTokenNotYetValid
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrTokenSignature
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformedToken
	default:
		return ErrInvalidToken
	}
}
