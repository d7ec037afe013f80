// Package authz contains the pure authorization policy applied to every
// project and task operation. It performs no I/O: callers resolve the
// owner ID first (directly for projects, through the parent project or the
// cached projection for tasks) and pass it in.
package authz

import (
	"errors"

	"github.com/google/uuid"
	"github.com/phrazzld/cloudtask-api/internal/domain"
)

// ErrForbidden indicates the actor is authenticated but not authorized to
// act on the target record. It is distinct from the store's not-found
// errors so the API layer can surface the two differently.
var ErrForbidden = errors.New("actor is not permitted to access this resource")

// CanAccess reports whether the actor may read or write a record owned by
// ownerID. Admins may access everything; other users only records they own.
//
// The actor's IsActive flag is deliberately not consulted here; inactive
// users authorize identically to active ones. See the policy tests, which
// pin this behavior down.
func CanAccess(actor *domain.User, ownerID uuid.UUID) bool {
	if actor == nil {
		return false
	}
	return actor.Role == domain.RoleAdmin || actor.ID == ownerID
}

// Authorize returns nil when CanAccess allows the actor, or ErrForbidden
// when it does not.
func Authorize(actor *domain.User, ownerID uuid.UUID) error {
	if !CanAccess(actor, ownerID) {
		return ErrForbidden
	}
	return nil
}
