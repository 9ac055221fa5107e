package api

import (
	"context"

	"github.com/connectingdots/blog-backend/auth"
)

type keyType string

const claimsKey keyType = "claims"

// ctxWithClaims attaches the verified token claims to the request context
func ctxWithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ctxGetClaims retrieves the verified token claims; nil means the request
// did not pass the authentication middleware.
func ctxGetClaims(ctx context.Context) *auth.Claims {
	if v := ctx.Value(claimsKey); v != nil {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}
