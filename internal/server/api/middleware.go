package api

import (
	"context"
	"net/http"
	"strings"

	"salesreport/internal/server/auth"
	"salesreport/internal/server/models"
)

type contextKey int

const claimsKey contextKey = iota

func claimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}

// withAuth validates the bearer token and stores its claims in the request
// context.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondError(w, http.StatusUnauthorized, "Not authorized, no token")
			return
		}

		claims, err := auth.ParseToken(token, s.secretKey)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Token is not valid")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// withAdmin rejects non-admin sessions. Must be nested inside withAuth.
func (s *Server) withAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "Not authorized, no token")
			return
		}
		if claims.Role != models.RoleAdmin {
			respondError(w, http.StatusForbidden, "Admin resource. Access denied.")
			return
		}
		next(w, r)
	}
}
