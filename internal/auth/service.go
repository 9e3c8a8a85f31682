package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"
)

// Service wraps authentication business rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate validates email/password credentials and returns the identity
// this account maps to. Every failure collapses into ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (Identity, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return Identity{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Identity{}, ErrInvalidCredentials
	}
	return Identity{UserID: user.ID, Verified: user.IsVerified}, nil
}

// IdentityOf loads the current identity for a user. Called per request when
// resolving a bearer token, so verification changes apply to live tokens
// without reissuing them.
func (s *Service) IdentityOf(ctx context.Context, userID int64) (Identity, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return Identity{}, err
	}
	return Identity{UserID: user.ID, Verified: user.IsVerified}, nil
}
