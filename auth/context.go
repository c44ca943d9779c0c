package auth

import "context"

// Principal is the authenticated identity attached to a request.
type Principal struct {
	UserID string
	Email  string
	Name   string
}

type contextKey struct{ name string }

var principalContextKey = &contextKey{name: "auth_principal"}

// WithPrincipal stores the principal in the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// PrincipalFromContext returns the principal stored in the context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(Principal)
	return p, ok
}

// MustPrincipal returns the principal or panics. Use only behind the
// authentication middleware.
func MustPrincipal(ctx context.Context) Principal {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		panic(ErrNoPrincipal)
	}
	return p
}
