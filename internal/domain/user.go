package domain

import (
	"errors"
	"strings"
	"time"
)

// Common validation errors
var (
	ErrEmptyFirstName    = errors.New("first name cannot be empty")
	ErrEmptyLastName     = errors.New("last name cannot be empty")
	ErrInvalidEmail      = errors.New("invalid email format")
	ErrEmptyEmail        = errors.New("email cannot be empty")
	ErrEmptyPasswordHash = errors.New("password hash cannot be empty")
	ErrEmptySalt         = errors.New("salt cannot be empty")
	ErrFutureDateOfBirth = errors.New("date of birth cannot be in the future")
)

// User is the persisted credential record of a registered user.
// PasswordHash and Salt never leave the auth boundary: handlers work with
// the Principal projection instead.
type User struct {
	ID           int64      `json:"id"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Salt         string     `json:"-"`
	Role         Role       `json:"role"`
	DateOfBirth  *time.Time `json:"dateOfBirth,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// NewUser creates a new User with the default role. The ID is assigned by
// the store on insert.
//
// NOTE: the returned user has no credentials yet. The caller must set
// PasswordHash and Salt before storing it.
func NewUser(firstName, lastName, email string, dateOfBirth *time.Time) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		FirstName:   strings.TrimSpace(firstName),
		LastName:    strings.TrimSpace(lastName),
		Email:       strings.TrimSpace(email),
		Role:        RoleUser,
		DateOfBirth: dateOfBirth,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := user.validateProfile(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User holds a complete credential record.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if err := u.validateProfile(); err != nil {
		return err
	}
	if u.PasswordHash == "" {
		return ErrEmptyPasswordHash
	}
	if u.Salt == "" {
		return ErrEmptySalt
	}
	return nil
}

func (u *User) validateProfile() error {
	if u.FirstName == "" {
		return ErrEmptyFirstName
	}
	if u.LastName == "" {
		return ErrEmptyLastName
	}
	if u.Email == "" {
		return ErrEmptyEmail
	}
	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}
	if !u.Role.Valid() {
		return ErrInvalidRole
	}
	if u.DateOfBirth != nil && u.DateOfBirth.After(time.Now()) {
		return ErrFutureDateOfBirth
	}
	return nil
}

// Principal returns the public view of u. The result has no place to hold
// the password hash or salt.
func (u *User) Principal() Principal {
	return Principal{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Role:        u.Role,
		DateOfBirth: u.DateOfBirth,
	}
}

// validateEmailFormat performs basic validation of email format: one local
// part, an "@", and a dotted domain. Request payloads are additionally
// checked with the validator's "email" rule at the API boundary.
func validateEmailFormat(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 || strings.Count(email, "@") != 1 {
		return false
	}

	domainPart := email[at+1:]
	if len(domainPart) < 3 { // minimum would be "a.b"
		return false
	}

	dot := strings.IndexByte(domainPart, '.')
	return dot > 0 && dot < len(domainPart)-1
}
