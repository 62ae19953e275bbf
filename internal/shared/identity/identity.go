// Package identity carries the authenticated caller between the access gate and the use cases.
package identity

import (
	"context"
	"strings"
)

// Role is the coarse permission class attached to every authenticated caller.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
)

// ParseRole normalizes a raw role string. Unknown values are returned as-is so callers can reject them.
func ParseRole(raw string) Role {
	return Role(strings.ToLower(strings.TrimSpace(raw)))
}

// Valid reports whether the role is one the marketplace understands.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleVendor:
		return true
	default:
		return false
	}
}

// Identity is the verified principal extracted from a bearer credential.
type Identity struct {
	UserID    string
	Role      Role
	SessionID string
}

// Is reports whether the identity carries the given role.
func (i Identity) Is(role Role) bool {
	return i.Role == role
}

type contextKey struct{}

// WithIdentity stores the identity on the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity attached by the access gate, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
