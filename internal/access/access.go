// Package access holds the pure permission decisions shared by services.
package access

import (
	"github.com/google/uuid"

	"github.com/EmilyGongVL/ecommerce-v1/pkg/enums"
	pkgerrors "github.com/EmilyGongVL/ecommerce-v1/pkg/errors"
)

// Actor identifies the authenticated caller of a service operation.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == enums.UserRoleAdmin
}

// CanManage returns nil when the actor owns the resource or is an admin.
func CanManage(actor Actor, ownerID uuid.UUID) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.UserID != uuid.Nil && actor.UserID == ownerID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "you do not have permission to perform this action")
}
