package auth

import (
	"context"
	"errors"
)

// UserClaims holds the identity established by the upstream gateway.
type UserClaims struct {
	UID   string
	Email string
}

// ErrUnauthenticated is returned when no identity is present on the context.
var ErrUnauthenticated = errors.New("user not authenticated")

type contextKey struct{}

var userClaimsKey contextKey

// WithUserClaims returns a context carrying the given user claims.
func WithUserClaims(ctx context.Context, claims *UserClaims) context.Context {
	return context.WithValue(ctx, userClaimsKey, claims)
}

// GetUserClaims extracts user claims from the context.
func GetUserClaims(ctx context.Context) (*UserClaims, bool) {
	claims, ok := ctx.Value(userClaimsKey).(*UserClaims)
	return claims, ok
}

// RequireAuth extracts user claims from context or returns an
// unauthenticated error.
func RequireAuth(ctx context.Context) (*UserClaims, error) {
	claims, ok := GetUserClaims(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	return claims, nil
}
