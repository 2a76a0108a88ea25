package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

// Identity is the caller resolved from a verified session token.
type Identity struct {
	UserID string
	Email  string
}

// TokenVerifier is the part of TokenService the Gate depends on.
type TokenVerifier interface {
	Verify(token string) (Claims, error)
}

// Gate turns an Authorization header value into an Identity. It keeps no
// state between calls.
type Gate struct {
	tokens TokenVerifier
}

func NewGate(tokens TokenVerifier) *Gate {
	return &Gate{tokens: tokens}
}

// Authenticate expects "Bearer <token>". A missing header, a malformed
// value and a token that fails verification all return an error matching
// common.ErrorUnauthorized.
func (g *Gate) Authenticate(header string) (Identity, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return Identity{}, fmt.Errorf("%w: missing authorization header", common.ErrorUnauthorized)
	}

	scheme, token, _ := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !strings.EqualFold(scheme, common.BearerScheme) || token == "" {
		return Identity{}, fmt.Errorf("%w: malformed authorization header", common.ErrorUnauthorized)
	}

	claims, err := g.tokens.Verify(token)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}

	return Identity{UserID: claims.UserID, Email: claims.Email}, nil
}

type ctxKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFromContext returns the identity stored by WithIdentity.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
