package middleware

import (
	"context"
	"net/http"
	"strings"

	"lpdp/internal/domain/auth"
)

type ctxKey string

const ctxKeyPrincipal ctxKey = "principal"

// Auth parses a bearer token into the request principal. Requests without
// a valid token pass through anonymous; route guards decide what requires
// authentication.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyPrincipal, auth.Principal{
				UserID:    claims.UserID,
				TenantIDs: claims.TenantIDs,
				RoleID:    claims.RoleID,
				RoleName:  claims.RoleName,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetPrincipal(ctx context.Context) (auth.Principal, bool) {
	p, ok := ctx.Value(ctxKeyPrincipal).(auth.Principal)
	return p, ok
}
