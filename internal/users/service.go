package users

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Service handles user business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// Register creates an account. New accounts start unverified and receive
// every role currently flagged as default.
func (s *Service) Register(ctx context.Context, email, name, password string) (int64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("users: hash password: %w", err)
	}
	user, err := s.repo.CreateUser(ctx, email, strings.TrimSpace(name), string(hash))
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

// SetVerified records the outcome of the verification flow. Bearer tokens
// carry only the user ID, so the change applies to live sessions on their
// next request.
func (s *Service) SetVerified(ctx context.Context, userID int64, verified bool) error {
	return s.repo.SetVerified(ctx, userID, verified)
}
