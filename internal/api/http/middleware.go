package http

import (
	"context"
	"net/http"
	"strings"

	"driveline-backend/internal/security"

	"github.com/gorilla/mux"
)

type contextKey string

const claimsContextKey contextKey = "staff_claims"

// AuthMiddleware validates the Bearer token on staff endpoints and stashes
// the claims in the request context.
func AuthMiddleware(tokens security.TokenManager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil || claims.Type != security.TokenTypeAccess {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// staffFromContext returns the authenticated staff claims, or nil on
// unauthenticated routes.
func staffFromContext(ctx context.Context) *security.StaffClaims {
	claims, _ := ctx.Value(claimsContextKey).(*security.StaffClaims)
	return claims
}
