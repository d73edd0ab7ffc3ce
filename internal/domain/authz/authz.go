// Package authz holds the pure authorization predicates used before any gated mutation.
package authz

import (
	"sportsched/internal/domain/playsession"
	"sportsched/internal/domain/user"
)

// Identity is the authenticated caller bound to a request.
// The zero value is an anonymous caller.
type Identity struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// IsAuthenticated reports whether an identity is bound.
func IsAuthenticated(id Identity) bool {
	return id.ID != ""
}

// IsAdmin reports whether the identity carries the admin role.
func IsAdmin(id Identity) bool {
	return IsAuthenticated(id) && id.Role == user.RoleAdmin
}

// CanManage reports whether the identity may cancel the session: admins and the owner.
func CanManage(id Identity, s playsession.Session) bool {
	if !IsAuthenticated(id) {
		return false
	}
	return IsAdmin(id) || id.ID == s.CreatedBy
}
