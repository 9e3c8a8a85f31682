package rbac

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/pricelab/pricelab/internal/auth"
)

// permission names follow the resource:action convention, with multi-segment
// actions allowed (admin:read:users).
var permissionPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*(:[a-z][a-z0-9_]*)+$`)

// Service orchestrates RBAC operations and hosts the authorization resolver.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// RegisterPermission adds a permission to the registry. Write-once: a second
// registration of the same name fails with ErrPermissionExists.
func (s *Service) RegisterPermission(ctx context.Context, name string) (Permission, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if !permissionPattern.MatchString(name) {
		return Permission{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return s.repo.CreatePermission(ctx, name)
}

// ListPermissions returns the registry in stable lexicographic order.
func (s *Service) ListPermissions(ctx context.Context) ([]Permission, error) {
	return s.repo.ListPermissions(ctx)
}

// ListRoles returns all roles.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

// GetRole fetches a role by ID.
func (s *Service) GetRole(ctx context.Context, id int64) (Role, error) {
	return s.repo.GetRole(ctx, id)
}

// CreateRole inserts a new role with the given permission set.
func (s *Service) CreateRole(ctx context.Context, name string, permissions []string, isDefault bool) (Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Role{}, fmt.Errorf("%w: role name required", ErrInvalidName)
	}
	perms, err := s.normalizePermissionSet(ctx, permissions)
	if err != nil {
		return Role{}, err
	}
	return s.repo.CreateRole(ctx, name, perms, isDefault)
}

// UpdateRolePermissions replaces the role's permission set wholesale.
func (s *Service) UpdateRolePermissions(ctx context.Context, id int64, permissions []string) (Role, error) {
	perms, err := s.normalizePermissionSet(ctx, permissions)
	if err != nil {
		return Role{}, err
	}
	return s.repo.ReplaceRolePermissions(ctx, id, perms)
}

// MarkDefault flags or unflags a role for auto-assignment at registration.
func (s *Service) MarkDefault(ctx context.Context, id int64, isDefault bool) error {
	return s.repo.SetRoleDefault(ctx, id, isDefault)
}

// DeleteRole removes a role and cascades its user bindings in one
// transaction. The delete is rejected with ErrLastAdminRole when the role is
// the only one left holding PermAdminAssignRoles.
func (s *Service) DeleteRole(ctx context.Context, id int64) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		role, err := tx.GetRole(ctx, id)
		if err != nil {
			return err
		}
		if role.HasPermission(PermAdminAssignRoles) {
			holders, err := tx.RoleIDsHolding(ctx, PermAdminAssignRoles)
			if err != nil {
				return err
			}
			if len(holders) <= 1 {
				return ErrLastAdminRole
			}
		}
		return tx.DeleteRole(ctx, id)
	})
}

// AssignRole binds a role to a user.
func (s *Service) AssignRole(ctx context.Context, userID, roleID int64) error {
	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	if _, err := s.repo.GetRole(ctx, roleID); err != nil {
		return err
	}
	return s.repo.AssignRole(ctx, userID, roleID)
}

// RevokeRole removes a binding. Revoking an absent binding reports
// ErrNotFound and has no side effect.
func (s *Service) RevokeRole(ctx context.Context, userID, roleID int64) error {
	return s.repo.RevokeRole(ctx, userID, roleID)
}

// RolesOf returns the roles bound to a user.
func (s *Service) RolesOf(ctx context.Context, userID int64) ([]Role, error) {
	return s.repo.RolesOf(ctx, userID)
}

// EffectivePermissions returns the union of permission sets across the
// user's roles.
func (s *Service) EffectivePermissions(ctx context.Context, userID int64) ([]string, error) {
	roles, err := s.repo.RolesOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	return EffectivePermissions(roles), nil
}

// Authorize resolves an allow/deny decision for the identity. It never
// returns an error: a storage fault is logged and denied, so registry
// contents cannot leak through error channels. It is evaluated against a
// fresh snapshot on every call; there is no cross-request cache to go stale.
func (s *Service) Authorize(ctx context.Context, identity auth.Identity, required string) Decision {
	if !identity.Verified {
		return Deny
	}
	roles, err := s.repo.RolesOf(ctx, identity.UserID)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("rbac resolve roles", slog.Int64("user_id", identity.UserID), slog.Any("error", err))
		}
		return Deny
	}
	return Decide(identity.Verified, roles, required)
}

func (s *Service) normalizePermissionSet(ctx context.Context, permissions []string) ([]string, error) {
	registered, err := s.repo.ListPermissions(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[string]struct{}, len(registered))
	for _, p := range registered {
		known[p.Name] = struct{}{}
	}

	set := make(map[string]struct{}, len(permissions))
	for _, p := range permissions {
		p = strings.TrimSpace(strings.ToLower(p))
		if p == "" {
			continue
		}
		if _, ok := known[p]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPermission, p)
		}
		set[p] = struct{}{}
	}

	perms := make([]string, 0, len(set))
	for p := range set {
		perms = append(perms, p)
	}
	sort.Strings(perms)
	return perms, nil
}
