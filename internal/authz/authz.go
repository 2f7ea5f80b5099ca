// Package authz is the pure authorization guard. Role checks answer "can
// this role ever do X"; ownership checks answer "can this caller do X to
// this resource". Callers layer both.
package authz

import (
	"github.com/google/uuid"

	"github.com/castcall/castcall/internal/apperrors"
	"github.com/castcall/castcall/internal/models"
)

// Principal is the authenticated caller identity attached to a request.
type Principal struct {
	UserID uuid.UUID
	Role   models.Role
}

// Require permits the action when caller is present and its role is in
// allowed. A missing caller is Unauthenticated, a role mismatch Forbidden.
func Require(caller *Principal, allowed ...models.Role) error {
	if caller == nil || caller.UserID == uuid.Nil {
		return apperrors.NewUnauthenticatedError("Authentication required.")
	}
	for _, role := range allowed {
		if caller.Role == role {
			return nil
		}
	}
	return apperrors.NewForbiddenError("You don't have permission to perform this action.")
}

// CanManage reports whether caller owns the resource or is an admin.
func CanManage(caller *Principal, ownerID uuid.UUID) bool {
	if caller == nil {
		return false
	}
	if caller.Role.IsAdmin() {
		return true
	}
	return caller.UserID == ownerID
}

// RequireOwnership is the resource-specific second check on top of Require.
func RequireOwnership(caller *Principal, ownerID uuid.UUID) error {
	if caller == nil || caller.UserID == uuid.Nil {
		return apperrors.NewUnauthenticatedError("Authentication required.")
	}
	if !CanManage(caller, ownerID) {
		return apperrors.NewForbiddenError("You don't have permission to manage this resource.")
	}
	return nil
}
