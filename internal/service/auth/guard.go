package auth

import (
	"fmt"

	"github.com/phrazzld/scribe-api/internal/domain"
)

// CanMutate reports whether p may edit or delete a resource owned by
// ownerID. Admins always may; anyone else only when they own the resource.
// An ownerID of 0 (no owner) never matches a principal.
func CanMutate(p domain.Principal, ownerID int64) bool {
	if p.Role.IsAdmin() {
		return true
	}
	return p.ID > 0 && p.ID == ownerID
}

// Authorize applies CanMutate to an ownership tuple and returns
// ErrForbidden on deny.
func Authorize(p domain.Principal, o domain.Ownership) error {
	if CanMutate(p, o.OwnerID) {
		return nil
	}
	return fmt.Errorf("%w: principal %d on resource %d", ErrForbidden, p.ID, o.ResourceID)
}
