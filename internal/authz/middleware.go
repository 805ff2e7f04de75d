package authz

import (
	"net/http"

	"github.com/jdragonx/sgcn-sgc-prototipo/internal/models"
)

// RequireRole returns a middleware that ensures the requester holds one of
// the allowed roles. Admin always passes.
func RequireRole(allowed ...models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := RoleFromRequest(r)
			if !ok {
				http.Error(w, "insufficient permissions", http.StatusForbidden)
				return
			}
			if role != models.RoleAdmin && !contains(allowed, role) {
				http.Error(w, "insufficient permissions", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func contains(roles []models.UserRole, role models.UserRole) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
