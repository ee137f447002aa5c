package handlers

import (
	"context"
	"net/http"
	"strings"

	"jyotikabilling/utils"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(issuer *utils.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				writeError(w, http.StatusUnauthorized, "Authorization token required")
				return
			}

			claims, err := issuer.JwtValidate(strings.TrimSpace(token))
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the caller's token claims, if any.
func ClaimsFromContext(ctx context.Context) (*utils.JwtCustomClaim, bool) {
	claims, ok := ctx.Value(claimsKey).(*utils.JwtCustomClaim)
	return claims, ok
}
