package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenStore(t *testing.T) (*TokenStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewTokenStore(client, time.Hour), mr
}

func TestTokenStoreIssueResolve(t *testing.T) {
	store, _ := newTestTokenStore(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, 7)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := store.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)

	// Each issue mints a distinct token.
	second, err := store.Issue(ctx, 7)
	require.NoError(t, err)
	assert.NotEqual(t, token, second)
}

func TestTokenStoreRevoke(t *testing.T) {
	store, _ := newTestTokenStore(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, store.Revoke(ctx, token))
	_, err = store.Resolve(ctx, token)
	require.ErrorIs(t, err, ErrTokenNotFound)

	// Revoking again is a no-op.
	require.NoError(t, store.Revoke(ctx, token))
}

func TestTokenStoreExpiry(t *testing.T) {
	store, mr := newTestTokenStore(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, 2)
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)
	_, err = store.Resolve(ctx, token)
	require.ErrorIs(t, err, ErrTokenNotFound)
}

func TestTokenStoreUnknownToken(t *testing.T) {
	store, _ := newTestTokenStore(t)
	_, err := store.Resolve(context.Background(), "not-a-token")
	require.ErrorIs(t, err, ErrTokenNotFound)
}
