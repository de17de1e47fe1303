package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/pagecraft/pagecraft/internal/auth"
)

// RequirePermissions guards a route behind permission codenames. The request
// is rejected with 403 unless the authenticated user holds every listed
// codename; unauthenticated requests get 401.
func RequirePermissions(codenames ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.UserFromContext(r.Context())
			if !ok || user == nil {
				writePermissionError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			if !user.HasAllPermissions(codenames) {
				writePermissionError(w, http.StatusForbidden, "permission denied")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writePermissionError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    status,
		"message": message,
	})
}
