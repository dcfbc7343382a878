package middleware

import (
	"context"

	jwtutil "banglaixanh/backend/app/jwt"
)

func GetClaims(ctx context.Context) *jwtutil.Claims {
	if v := ctx.Value(ClaimsKey); v != nil {
		if c, ok := v.(*jwtutil.Claims); ok {
			return c
		}
	}
	return nil
}

// Username returns the authenticated user name, or "" for anonymous requests.
func Username(ctx context.Context) string {
	if c := GetClaims(ctx); c != nil {
		return c.Username
	}
	return ""
}
