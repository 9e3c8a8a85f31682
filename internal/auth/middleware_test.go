package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricelab/pricelab/internal/platform/httpx"
)

type stubIdentities struct {
	verified map[int64]bool
}

func (s *stubIdentities) IdentityOf(ctx context.Context, userID int64) (Identity, error) {
	verified, ok := s.verified[userID]
	if !ok {
		return Identity{}, httpx.ErrNotFound
	}
	return Identity{UserID: userID, Verified: verified}, nil
}

func TestMiddlewareResolvesBearerToken(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewTokenStore(client, time.Hour)
	identities := &stubIdentities{verified: map[int64]bool{5: true}}

	token, err := store.Issue(context.Background(), 5)
	require.NoError(t, err)

	var got *Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if identity, ok := IdentityFromContext(r.Context()); ok {
			got = &identity
		}
		w.WriteHeader(http.StatusOK)
	})
	handler := Middleware(store, identities, nil)(next)

	t.Run("valid token installs identity", func(t *testing.T) {
		got = nil
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		handler.ServeHTTP(httptest.NewRecorder(), req)
		require.NotNil(t, got)
		assert.Equal(t, Identity{UserID: 5, Verified: true}, *got)
	})

	t.Run("verification change reaches a live token", func(t *testing.T) {
		identities.verified[5] = false
		got = nil
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		handler.ServeHTTP(httptest.NewRecorder(), req)
		require.NotNil(t, got)
		assert.False(t, got.Verified)

		identities.verified[5] = true
		got = nil
		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		handler.ServeHTTP(httptest.NewRecorder(), req)
		require.NotNil(t, got)
		assert.True(t, got.Verified)
	})

	t.Run("deleted account passes through anonymously", func(t *testing.T) {
		delete(identities.verified, 5)
		got = nil
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Nil(t, got)
		identities.verified[5] = true
	})

	t.Run("no header passes through anonymously", func(t *testing.T) {
		got = nil
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Nil(t, got)
	})

	t.Run("unknown token passes through anonymously", func(t *testing.T) {
		got = nil
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer bogus")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Nil(t, got)
	})

	t.Run("non-bearer scheme ignored", func(t *testing.T) {
		got = nil
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		handler.ServeHTTP(httptest.NewRecorder(), req)
		assert.Nil(t, got)
	})
}
