package model

import (
	"context"

	"github.com/google/uuid"
)

// Identity is the authenticated caller attached to a request by the auth gate.
type Identity struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type identityKey struct{}

func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
