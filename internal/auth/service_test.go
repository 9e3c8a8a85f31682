package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pricelab/pricelab/internal/platform/httpx"
)

type stubUserRepo struct {
	users map[string]*User
}

func (r *stubUserRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	user, ok := r.users[email]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return user, nil
}

func (r *stubUserRepo) FindByID(ctx context.Context, id int64) (*User, error) {
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, httpx.ErrNotFound
}

func newStubRepo(t *testing.T) *stubUserRepo {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	return &stubUserRepo{users: map[string]*User{
		"ana@pricelab.local": {ID: 1, Email: "ana@pricelab.local", PasswordHash: string(hash), IsVerified: true},
		"bo@pricelab.local":  {ID: 2, Email: "bo@pricelab.local", PasswordHash: string(hash), IsVerified: false},
	}}
}

func TestAuthenticate(t *testing.T) {
	svc := NewService(newStubRepo(t))
	ctx := context.Background()

	identity, err := svc.Authenticate(ctx, "ana@pricelab.local", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: 1, Verified: true}, identity)

	// Unverified accounts can still log in; authorization denies them later.
	identity, err = svc.Authenticate(ctx, "bo@pricelab.local", "s3cret")
	require.NoError(t, err)
	assert.False(t, identity.Verified)
}

func TestAuthenticateFailuresCollapse(t *testing.T) {
	svc := NewService(newStubRepo(t))
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "ana@pricelab.local", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "ghost@pricelab.local", "s3cret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestIdentityOfTracksVerification(t *testing.T) {
	repo := newStubRepo(t)
	svc := NewService(repo)
	ctx := context.Background()

	identity, err := svc.IdentityOf(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: 2, Verified: false}, identity)

	// Verification flips without any token reissue.
	repo.users["bo@pricelab.local"].IsVerified = true
	identity, err = svc.IdentityOf(ctx, 2)
	require.NoError(t, err)
	assert.True(t, identity.Verified)

	_, err = svc.IdentityOf(ctx, 404)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestIdentityContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	_, ok := IdentityFromContext(ctx)
	assert.False(t, ok)

	want := Identity{UserID: 9, Verified: true}
	got, ok := IdentityFromContext(ContextWithIdentity(ctx, want))
	assert.True(t, ok)
	assert.Equal(t, want, got)
}
