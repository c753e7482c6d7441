package auth

import (
	"errors"
	"fmt"
)

// Authentication and authorization outcomes. All of them are recoverable by
// the caller; none is process-fatal.
var (
	// ErrInvalidCredentials is the single undifferentiated failure for a bad
	// username/password pair. Unknown user and wrong password both map here.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken covers every bearer-token verification failure.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrMalformedToken indicates the token could not be decoded.
	ErrMalformedToken = fmt.Errorf("%w: malformed", ErrInvalidToken)

	// ErrTokenSignature indicates the signature does not match the token's
	// own header and payload, or the algorithm is not accepted.
	ErrTokenSignature = fmt.Errorf("%w: signature mismatch", ErrInvalidToken)

	// ErrExpiredToken indicates the token is past its exp claim.
	ErrExpiredToken = fmt.Errorf("%w: expired", ErrInvalidToken)

	// ErrTokenNotYetValid indicates the token's nbf or iat lies in the future.
	ErrTokenNotYetValid = fmt.Errorf("%w: not yet valid", ErrInvalidToken)

	// ErrMissingToken indicates a token was expected but not provided.
	ErrMissingToken = fmt.Errorf("%w: missing", ErrInvalidToken)

	// ErrPrincipalNotFound indicates a valid token whose user no longer exists.
	ErrPrincipalNotFound = errors.New("principal not found")

	// ErrForbidden indicates an authenticated principal may not mutate the
	// target resource.
	ErrForbidden = errors.New("forbidden")

	// ErrDuplicateIdentity indicates registration with an email already in use.
	ErrDuplicateIdentity = errors.New("identity already exists")
)

// InternalAuthError reports a defect inside the auth core, such as an
// undecodable stored digest or a failing credential store. It must never be
// folded into a generic "invalid" outcome.
type InternalAuthError struct {
	Op  string
	Err error
}

func (e *InternalAuthError) Error() string {
	return fmt.Sprintf("internal auth error during %s: %v", e.Op, e.Err)
}

func (e *InternalAuthError) Unwrap() error {
	return e.Err
}

func internalError(op string, err error) error {
	var existing *InternalAuthError
	if errors.As(err, &existing) {
		return err
	}
	return &InternalAuthError{Op: op, Err: err}
}
