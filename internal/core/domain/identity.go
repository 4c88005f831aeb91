package domain

import "context"

// Identity is the set of verified claims attached to one in-flight request.
type Identity struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Allow is the authorization gate. An empty required set admits every
// authenticated identity; otherwise the identity's role must be a member.
func Allow(id Identity, required RoleSet) bool {
	if len(required) == 0 {
		return true
	}
	return required.Contains(id.Role)
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity attached by WithIdentity.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
