package rbac

import "errors"

var (
	// ErrNotFound indicates that the requested record does not exist.
	ErrNotFound = errors.New("rbac: not found")
	// ErrRoleExists indicates a duplicate role name.
	ErrRoleExists = errors.New("rbac: role name already exists")
	// ErrPermissionExists indicates the permission is already registered.
	ErrPermissionExists = errors.New("rbac: permission already registered")
	// ErrUnknownPermission indicates a role references an unregistered permission.
	ErrUnknownPermission = errors.New("rbac: unknown permission")
	// ErrAlreadyAssigned indicates the (user, role) binding already exists.
	ErrAlreadyAssigned = errors.New("rbac: role already assigned")
	// ErrLastAdminRole rejects a delete that would leave no role able to
	// manage role assignments.
	ErrLastAdminRole = errors.New("rbac: cannot delete the last admin-capable role")
	// ErrInvalidName rejects empty or malformed names.
	ErrInvalidName = errors.New("rbac: invalid name")
)
