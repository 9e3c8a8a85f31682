package auth

import (
	"context"
	"time"
)

// Identity is the authenticated actor as trusted by downstream layers. How
// the token was minted is irrelevant past this boundary.
type Identity struct {
	UserID   int64 `json:"user_id"`
	Verified bool  `json:"verified"`
}

// User represents an account record used for credential checks.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	IsVerified   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type identityContextKey struct{}

// ContextWithIdentity stores the identity in context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the identity from context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}
