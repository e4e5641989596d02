// Package authctx carries the authenticated Identity through a request's
// context.Context.
//
//	ctx = authctx.Set(ctx, identity)      // gate middleware
//	id, ok := authctx.Get(ctx)            // handlers
package authctx

import (
	"context"
	"errors"

	"github.com/kbukum/authgate/auth"
)

// contextKey is an unexported type to prevent collisions with other packages.
type contextKey struct{}

var identityKey = contextKey{}

// ErrNoIdentity is returned when no identity is attached to the context.
var ErrNoIdentity = errors.New("authctx: no identity in context")

// Set attaches the identity to the context. A zero identity is not stored.
func Set(ctx context.Context, id auth.Identity) context.Context {
	if id.IsZero() {
		return ctx
	}
	return context.WithValue(ctx, identityKey, id)
}

// Get returns the identity attached to ctx.
func Get(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}

// MustGet returns the identity or panics. Only for handlers mounted behind
// an identity requirement.
func MustGet(ctx context.Context) auth.Identity {
	id, ok := Get(ctx)
	if !ok {
		panic("authctx: identity not found in context")
	}
	return id
}

// GetOrError returns the identity or ErrNoIdentity.
func GetOrError(ctx context.Context) (auth.Identity, error) {
	id, ok := Get(ctx)
	if !ok {
		return auth.Identity{}, ErrNoIdentity
	}
	return id, nil
}
