package rbac

import (
	"net/http"

	"github.com/pricelab/pricelab/internal/auth"
	"github.com/pricelab/pricelab/internal/platform/httpx"
)

// Middleware wires authorization guards for HTTP handlers. A missing
// identity yields 401; a Deny decision yields 403.
type Middleware struct {
	Service *Service
}

// Require ensures the request identity is allowed the given permission.
func (m Middleware) Require(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := auth.IdentityFromContext(r.Context())
			if !ok {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
				return
			}
			if m.Service.Authorize(r.Context(), identity, permission) != Allow {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "permission denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
