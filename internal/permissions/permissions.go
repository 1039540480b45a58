// Package permissions decides whether a principal may act on a resource.
// Nothing here touches storage.
package permissions

import (
	"strconv"

	"booktank/internal/apperrors"
	"booktank/internal/models"
)

// Principal is the authenticated identity attached to a request.
type Principal struct {
	ID   int64       `json:"id"`
	Role models.Role `json:"role"`
}

func (p Principal) IsAdmin() bool { return p.Role == models.RoleAdmin }

// Policy is a single capability check.
type Policy interface {
	Allowed() bool
}

// AdminOnly allows admins.
type AdminOnly struct {
	Principal Principal
}

func (p AdminOnly) Allowed() bool { return p.Principal.Role == models.RoleAdmin }

// SelfOnly allows the principal to act on its own resource.
type SelfOnly struct {
	Principal Principal
	TargetID  int64
}

func (p SelfOnly) Allowed() bool { return p.Principal.ID == p.TargetID }

// SelfOrAdmin allows the owner of the resource or an admin.
type SelfOrAdmin struct {
	Principal Principal
	TargetID  int64
}

func (p SelfOrAdmin) Allowed() bool {
	return p.Principal.ID == p.TargetID || p.Principal.Role == models.RoleAdmin
}

// AuthorOrAdmin allows authors and admins.
type AuthorOrAdmin struct {
	Principal Principal
}

func (p AuthorOrAdmin) Allowed() bool {
	return p.Principal.Role == models.RoleAuthor || p.Principal.Role == models.RoleAdmin
}

// AnyOf allows when at least one of its policies allows.
type AnyOf []Policy

func (a AnyOf) Allowed() bool {
	for _, p := range a {
		if p.Allowed() {
			return true
		}
	}
	return false
}

// Authorize returns an authorization error when p denies.
func Authorize(p Policy) error {
	if !p.Allowed() {
		return apperrors.Forbidden()
	}
	return nil
}

// ParseTargetID parses a resource id taken from a request path.
func ParseTargetID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.MalformedRequest("invalid id %q", raw)
	}
	return id, nil
}
