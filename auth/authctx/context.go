// Package authctx carries authenticated claims on a request context.
//
//	ctx = authctx.Set(ctx, claims)
//	claims, ok := authctx.Get[*auth.Claims](ctx)
package authctx

import "context"

type claimsKey struct{}

func Set(ctx context.Context, claims any) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// Get is false when ctx has no claims or they are not a T.
func Get[T any](ctx context.Context) (T, bool) {
	claims, ok := ctx.Value(claimsKey{}).(T)
	return claims, ok
}
