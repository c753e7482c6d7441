package shared

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire format of calendar dates such as dateOfBirth.
const DateLayout = "2006-01-02"

// Accepted date of birth range, inclusive.
var (
	MinDateOfBirth = time.Date(1940, time.January, 1, 0, 0, 0, 0, time.UTC)
	MaxDateOfBirth = time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// Global validator instance for reuse
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names in validation errors.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// ALLOW-PANIC: registration only fails on an empty tag
	if err := v.RegisterValidation("dob", validateDateOfBirth); err != nil {
		panic(err)
	}
	return v
}

// validateDateOfBirth accepts a DateLayout string inside the allowed range.
func validateDateOfBirth(fl validator.FieldLevel) bool {
	d, err := time.Parse(DateLayout, fl.Field().String())
	if err != nil {
		return false
	}
	return !d.Before(MinDateOfBirth) && !d.After(MaxDateOfBirth)
}

// DecodeJSON decodes the request body into the given struct.
func DecodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	return dec.Decode(v)
}

// ValidateRequest validates the given struct using the validator package.
func ValidateRequest(v interface{}) error {
	// Check if the object implements the Validate interface
	if validator, ok := v.(interface{ Validate() error }); ok {
		return validator.Validate()
	}

	return validate.Struct(v)
}

// ParseDate parses an optional DateLayout string.
func ParseDate(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	d, err := time.Parse(DateLayout, *s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
