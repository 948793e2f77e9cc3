package entity

import (
	"github.com/edusuite/school-fees-api/internal/domain/enum"
	"github.com/google/uuid"
)

// Principal is the authenticated caller. It is threaded explicitly into every
// service operation instead of being read from ambient request state.
type Principal struct {
	ID   uuid.UUID
	Role enum.Role
}

// IsAdmin reports whether the principal has the admin role
func (p Principal) IsAdmin() bool {
	return p.Role == enum.RoleAdmin
}

// IsSelf reports whether the principal is the given user
func (p Principal) IsSelf(userID uuid.UUID) bool {
	return p.ID == userID
}
