// Package auth carries the authenticated identity through request contexts,
// issues and parses access tokens, and fans out session events.
package auth

import (
	"context"
	"time"

	"inventory-tracker/internal/domain"

	"github.com/google/uuid"
)

type contextKey struct{}

// Identity is the caller authenticated by an access token
type Identity struct {
	UserID    uuid.UUID
	Email     string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Session returns the identity as session claims
func (i Identity) Session() domain.Session {
	return domain.Session{
		UserID:    i.UserID,
		Email:     i.Email,
		Role:      i.Role,
		IssuedAt:  i.IssuedAt,
		ExpiresAt: i.ExpiresAt,
	}
}

// WithIdentity returns a copy of ctx carrying id
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// IdentityFrom returns the identity stored in ctx
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok && id.UserID != uuid.Nil
}

// UserID returns the authenticated user's ID stored in ctx
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := IdentityFrom(ctx)
	return id.UserID, ok
}
