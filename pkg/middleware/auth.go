// Package middleware provides the HTTP middleware stack for Lidosole.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/lidosole/lidosole/pkg/auth"
	"github.com/lidosole/lidosole/pkg/response"
)

// Principal is the authenticated caller, threaded through the request
// context and passed explicitly into service calls by controllers.
type Principal struct {
	UserID uint
	Role   string
}

type principalKey struct{}

// WithPrincipal stores the authenticated caller in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromCtx extracts the authenticated caller from ctx.
func PrincipalFromCtx(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// StampValidator reports whether stamp is still the user's current security
// stamp. The identity service supplies a cache-backed implementation so a
// stamp rotation invalidates every outstanding token.
type StampValidator func(ctx context.Context, userID uint, stamp string) bool

// Auth validates the bearer token, checks the embedded security stamp and
// injects the Principal into the request context.
func Auth(validStamp StampValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if raw == "" || raw == r.Header.Get("Authorization") {
				response.Unauthorized(w)
				return
			}

			claims, err := auth.ValidateToken(raw)
			if err != nil {
				response.Unauthorized(w)
				return
			}

			if validStamp != nil && !validStamp(r.Context(), claims.UserID, claims.Stamp) {
				response.Unauthorized(w)
				return
			}

			ctx := WithPrincipal(r.Context(), Principal{UserID: claims.UserID, Role: claims.Role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole guards a route group to the listed roles. Must run after Auth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromCtx(r.Context())
			if !ok {
				response.Unauthorized(w)
				return
			}
			if _, ok := allowed[p.Role]; !ok {
				response.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
