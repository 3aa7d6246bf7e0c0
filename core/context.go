package core

import "context"

type contextKey int

const (
	identityKey contextKey = iota
)

// SetIdentity stores identity in ctx.
func SetIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentity returns the identity stored by SetIdentity, or
// ErrIdentityNotFound.
func GetIdentity(ctx context.Context) (*Identity, error) {
	identity, ok := ctx.Value(identityKey).(*Identity)
	if !ok || identity == nil {
		return nil, ErrIdentityNotFound
	}
	return identity, nil
}

// HasIdentity reports whether ctx carries an identity.
func HasIdentity(ctx context.Context) bool {
	_, err := GetIdentity(ctx)
	return err == nil
}
