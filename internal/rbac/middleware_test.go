package rbac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricelab/pricelab/internal/auth"
)

func TestRequirePermission(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	repo.users[1] = struct{}{}
	buyer := mustRole(t, svc, "buyer")
	require.NoError(t, svc.AssignRole(ctx, 1, buyer.ID))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	guard := Middleware{Service: svc}

	request := func(identity *auth.Identity) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/catalog/products", nil)
		if identity != nil {
			req = req.WithContext(auth.ContextWithIdentity(req.Context(), *identity))
		}
		return req
	}

	t.Run("anonymous gets 401", func(t *testing.T) {
		rr := httptest.NewRecorder()
		guard.Require(PermProductRead)(next).ServeHTTP(rr, request(nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Header().Get("Content-Type"), "application/problem+json")
	})

	t.Run("missing permission gets 403", func(t *testing.T) {
		rr := httptest.NewRecorder()
		identity := auth.Identity{UserID: 1, Verified: true}
		guard.Require(PermProductCreate)(next).ServeHTTP(rr, request(&identity))
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("unverified holder gets 403", func(t *testing.T) {
		rr := httptest.NewRecorder()
		identity := auth.Identity{UserID: 1, Verified: false}
		guard.Require(PermProductRead)(next).ServeHTTP(rr, request(&identity))
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("granted permission passes through", func(t *testing.T) {
		rr := httptest.NewRecorder()
		identity := auth.Identity{UserID: 1, Verified: true}
		guard.Require(PermProductRead)(next).ServeHTTP(rr, request(&identity))
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})
}
