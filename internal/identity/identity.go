package identity

import (
	"context"

	"github.com/coronelbarros/storefront/pkg/enums"
)

// Identity is who is making the request. The zero value is an anonymous
// visitor.
type Identity struct {
	UserID    string     `json:"user_id,omitempty"`
	Email     string     `json:"email,omitempty"`
	Name      string     `json:"name,omitempty"`
	Role      enums.Role `json:"role"`
	SessionID string     `json:"-"`
}

// Anonymous reports whether nobody is signed in.
func (i Identity) Anonymous() bool {
	return i.UserID == ""
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return !i.Anonymous() && i.Role == enums.RoleAdmin
}

type ctxKey struct{}

// WithIdentity stores id on ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey{}, id)
}

// CurrentUser returns the signed-in identity, or nil for anonymous requests.
func CurrentUser(ctx context.Context) *Identity {
	if ctx == nil {
		return nil
	}
	id, ok := ctx.Value(ctxKey{}).(Identity)
	if !ok || id.Anonymous() {
		return nil
	}
	return &id
}

// CurrentRole is RoleNone for anonymous requests.
func CurrentRole(ctx context.Context) enums.Role {
	if id := CurrentUser(ctx); id != nil {
		return id.Role
	}
	return enums.RoleNone
}
