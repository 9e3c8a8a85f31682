package rbac

import (
	"context"
	"errors"
	"fmt"
)

// Seed registers the permission catalog and creates the standard roles.
// It is idempotent: records that already exist are left untouched, so
// administrator edits survive restarts.
func Seed(ctx context.Context, svc *Service) error {
	for _, name := range Catalog() {
		if _, err := svc.RegisterPermission(ctx, name); err != nil && !errors.Is(err, ErrPermissionExists) {
			return fmt.Errorf("seed permission %s: %w", name, err)
		}
	}

	seedRoles := []struct {
		name        string
		permissions []string
		isDefault   bool
	}{
		{name: "admin", permissions: Catalog()},
		{name: "supplier", permissions: []string{
			PermProductCreate, PermProductRead, PermProductUpdate,
			PermOptimizationRead, PermForecastRead,
		}},
		// Every new registration starts as a buyer.
		{name: "buyer", permissions: []string{PermProductRead}, isDefault: true},
	}

	for _, role := range seedRoles {
		if _, err := svc.CreateRole(ctx, role.name, role.permissions, role.isDefault); err != nil && !errors.Is(err, ErrRoleExists) {
			return fmt.Errorf("seed role %s: %w", role.name, err)
		}
	}
	return nil
}
