// Package auth contains domain-level types for authenticated portal users.
package auth

import (
	"context"
	"time"
)

// Identity is the authenticated principal extracted from a verified token.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID      string
	DisplayName string
	Email       string
	Groups      []string
	ExpiresAt   time.Time
}

// Anonymous reports whether the identity carries no user.
func (i Identity) Anonymous() bool { return i.UserID == "" }

type identityKey struct{}

// WithIdentity returns a context carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity stored by WithIdentity.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok && !id.Anonymous()
}
