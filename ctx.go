package identity

import "context"

var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// WithClaimsContext sets verified Claims in the given context
func WithClaimsContext(r context.Context, claims *Claims) context.Context {
	return context.WithValue(r, claimsCtxKey, claims)
}

// ClaimsFromContext finds the claims from the context.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(*Claims)
	return raw, ok
}

// HasAuthority is a convenience check against the claims carried in ctx.
// It returns false when no claims are present.
func HasAuthority(ctx context.Context, name string) bool {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return false
	}
	return claims.HasAuthority(name)
}
