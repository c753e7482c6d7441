package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/scribe-api/internal/api/shared"
	"github.com/phrazzld/scribe-api/internal/domain"
	"github.com/phrazzld/scribe-api/internal/service"
	"github.com/phrazzld/scribe-api/internal/service/auth"
	"github.com/phrazzld/scribe-api/internal/store"
)

// MapErrorToStatusCode maps domain, store and service errors to HTTP
// status codes. Unknown errors map to 500.
func MapErrorToStatusCode(err error) int {
	var verrs validator.ValidationErrors
	var fieldErr *domain.ValidationError
	var internal *auth.InternalAuthError

	switch {
	case err == nil, errors.As(err, &internal), errors.Is(err, store.ErrCorruptRecord):
		return http.StatusInternalServerError

	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrPrincipalNotFound),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, auth.ErrDuplicateIdentity),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	case errors.As(err, &verrs),
		errors.As(err, &fieldErr),
		errors.Is(err, service.ErrEmptyPatch),
		errors.Is(err, store.ErrInvalidEntity),
		isDomainValidationError(err):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err. It never
// includes the error text itself.
func GetSafeErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	var fieldErr *domain.ValidationError
	var internal *auth.InternalAuthError

	switch {
	case err == nil, errors.As(err, &internal), errors.Is(err, store.ErrCorruptRecord):
		return "An unexpected error occurred"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrPrincipalNotFound):
		return "User no longer exists"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Authentication required"

	case errors.Is(err, service.ErrRoleChange):
		return "Only admins may change roles"

	case errors.Is(err, auth.ErrForbidden):
		return "You are not allowed to modify this resource"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrPostNotFound):
		return "Post not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, auth.ErrDuplicateIdentity),
		errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.As(err, &verrs):
		return SanitizeValidationError(err)

	case errors.As(err, &fieldErr):
		return fmt.Sprintf("Invalid %s: %s", fieldErr.Field, fieldErr.Message)

	case errors.Is(err, service.ErrEmptyPatch):
		return "No fields to update"

	case errors.Is(err, domain.ErrInvalidRole):
		return "Invalid role"

	case isDomainValidationError(err):
		// Domain sentinel messages are fixed strings without user data.
		return "Invalid entity data: " + err.Error()

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the mapped status and safe message for err and
// logs the redacted detail. A non-empty fallback replaces the generic
// message on 500 responses.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// SanitizeValidationError describes the first failed field of a validator
// error without echoing the submitted value.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}

	fe := verrs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "datetime":
		return "expected YYYY-MM-DD"
	case "dob":
		return "must be between 1940-01-01 and 2015-01-01"
	default:
		return "validation failed"
	}
}

func isDomainValidationError(err error) bool {
	for _, target := range []error{
		domain.ErrValidation,
		domain.ErrInvalidID,
		domain.ErrInvalidRole,
		domain.ErrEmptyContent,
		domain.ErrEmptyTitle,
		domain.ErrTitleTooLong,
		domain.ErrEmptyAuthorID,
		domain.ErrEmptyFirstName,
		domain.ErrEmptyLastName,
		domain.ErrEmptyEmail,
		domain.ErrInvalidEmail,
		domain.ErrFutureDateOfBirth,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
