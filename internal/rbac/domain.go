package rbac

import (
	"sort"
	"time"
)

// Permission represents an atomic capability named resource:action.
// Permissions are write-once: the registry only grows.
type Permission struct {
	ID   int64
	Name string
}

// Role bundles permissions under an administrator-defined name. The
// permission set is replaced wholesale on update, never mutated in place.
type Role struct {
	ID          int64
	Name        string
	Permissions []string
	IsDefault   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasPermission reports whether the role grants the named permission.
func (r Role) HasPermission(name string) bool {
	for _, p := range r.Permissions {
		if p == name {
			return true
		}
	}
	return false
}

// Decision is the outcome of an authorization check.
type Decision bool

// Authorization outcomes.
const (
	Allow Decision = true
	Deny  Decision = false
)

// Decide resolves an authorization check against a snapshot of the user's
// roles. It is pure and never errors: unverified identities and unknown
// permissions both resolve to Deny.
func Decide(verified bool, roles []Role, required string) Decision {
	if !verified || required == "" {
		return Deny
	}
	for _, role := range roles {
		if role.HasPermission(required) {
			return Allow
		}
	}
	return Deny
}

// EffectivePermissions returns the sorted union of permission sets across roles.
func EffectivePermissions(roles []Role) []string {
	set := make(map[string]struct{})
	for _, role := range roles {
		for _, p := range role.Permissions {
			set[p] = struct{}{}
		}
	}
	perms := make([]string, 0, len(set))
	for p := range set {
		perms = append(perms, p)
	}
	sort.Strings(perms)
	return perms
}
