package rbac

// Platform permission catalog.
const (
	PermProductCreate = "product:create"
	PermProductRead   = "product:read"
	PermProductUpdate = "product:update"
	PermProductDelete = "product:delete"

	PermOptimizationRead = "optimization:read"
	PermForecastRead     = "forecast:read"

	PermAdminReadUsers   = "admin:read:users"
	PermAdminAssignRoles = "admin:assign:roles"
	PermAdminReadRoles   = "admin:read:roles"
	PermAdminCreateRole  = "admin:create:role"
	PermAdminUpdateRole  = "admin:update:role"
	PermAdminDeleteRole  = "admin:delete:role"
)

// Catalog lists every permission the platform registers at bootstrap.
func Catalog() []string {
	return []string{
		PermProductCreate,
		PermProductRead,
		PermProductUpdate,
		PermProductDelete,
		PermOptimizationRead,
		PermForecastRead,
		PermAdminReadUsers,
		PermAdminAssignRoles,
		PermAdminReadRoles,
		PermAdminCreateRole,
		PermAdminUpdateRole,
		PermAdminDeleteRole,
	}
}
