package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/scribe-api/internal/service/auth"
)

// Common service errors. Callers check them with errors.Is; the API layer
// maps them to status codes.
var (
	// ErrRoleChange is returned when a non-admin tries to change a role.
	// It wraps auth.ErrForbidden so it maps to 403.
	ErrRoleChange = fmt.Errorf("%w: only admins may change roles", auth.ErrForbidden)

	// ErrEmptyPatch is returned when an update carries no fields.
	ErrEmptyPatch = errors.New("no fields to update")
)

// PostServiceError wraps unexpected errors from post operations.
type PostServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *PostServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("post service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("post service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *PostServiceError) Unwrap() error {
	return e.Err
}

// NewPostServiceError creates a new PostServiceError.
func NewPostServiceError(operation, message string, err error) *PostServiceError {
	return &PostServiceError{Operation: operation, Message: message, Err: err}
}

// UserServiceError wraps unexpected errors from user operations.
type UserServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *UserServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("user service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("user service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *UserServiceError) Unwrap() error {
	return e.Err
}

// NewUserServiceError creates a new UserServiceError.
func NewUserServiceError(operation, message string, err error) *UserServiceError {
	return &UserServiceError{Operation: operation, Message: message, Err: err}
}
