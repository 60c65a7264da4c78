package http

import (
	"net/http"
	"strings"

	"carbook-backend/internal/security"
)

// AdminAuth guards the back-office routes with a bearer token check. Token
// issuance lives in the external auth service; only validation happens here.
func AdminAuth(validator security.TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
				return
			}
			if _, err := validator.ValidateAdminToken(strings.TrimPrefix(header, "Bearer ")); err != nil {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
