package domain

import "time"

// Principal is the verified identity attached to a request after successful
// authentication. It is a projection of User without credential material.
type Principal struct {
	ID          int64      `json:"id"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Email       string     `json:"email"`
	Role        Role       `json:"role"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
}

// Ownership is the minimal fact needed to authorize a mutation of an owned
// resource. OwnerID 0 means the resource has no owner.
type Ownership struct {
	ResourceID int64
	OwnerID    int64
}
