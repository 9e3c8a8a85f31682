package rbac

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pricelab/pricelab/internal/platform/db"
)

// Repository defines persistence operations for the RBAC module.
type Repository interface {
	ListPermissions(ctx context.Context) ([]Permission, error)
	CreatePermission(ctx context.Context, name string) (Permission, error)

	ListRoles(ctx context.Context) ([]Role, error)
	GetRole(ctx context.Context, id int64) (Role, error)
	CreateRole(ctx context.Context, name string, permissions []string, isDefault bool) (Role, error)
	ReplaceRolePermissions(ctx context.Context, id int64, permissions []string) (Role, error)
	SetRoleDefault(ctx context.Context, id int64, isDefault bool) error

	AssignRole(ctx context.Context, userID, roleID int64) error
	RevokeRole(ctx context.Context, userID, roleID int64) error
	RolesOf(ctx context.Context, userID int64) ([]Role, error)
	UserExists(ctx context.Context, userID int64) (bool, error)

	// WithTx runs fn against a transactional view of the store. Role deletion
	// and its binding cascade go through here so both commit or neither does.
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository is the subset of operations available inside a transaction.
type TxRepository interface {
	GetRole(ctx context.Context, id int64) (Role, error)
	RoleIDsHolding(ctx context.Context, permission string) ([]int64, error)
	DeleteRole(ctx context.Context, id int64) error
}

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

var _ Repository = (*PGRepository)(nil)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ListPermissions returns the registry ordered lexicographically by name.
func (r *PGRepository) ListPermissions(ctx context.Context) ([]Permission, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM permissions ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var perms []Permission
	for rows.Next() {
		var p Permission
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

// CreatePermission registers a permission. Permissions are write-once.
func (r *PGRepository) CreatePermission(ctx context.Context, name string) (Permission, error) {
	var p Permission
	err := r.pool.QueryRow(ctx,
		`INSERT INTO permissions (name) VALUES ($1) RETURNING id, name`, name,
	).Scan(&p.ID, &p.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return Permission{}, ErrPermissionExists
		}
		return Permission{}, err
	}
	return p, nil
}

// ListRoles returns all roles ordered by name.
func (r *PGRepository) ListRoles(ctx context.Context) ([]Role, error) {
	return scanRoles(ctx, r.pool,
		`SELECT id, name, permissions, is_default, created_at, updated_at FROM roles ORDER BY name`)
}

// GetRole fetches a role by ID.
func (r *PGRepository) GetRole(ctx context.Context, id int64) (Role, error) {
	return getRole(ctx, r.pool, id)
}

// CreateRole inserts a new role with its full permission set.
func (r *PGRepository) CreateRole(ctx context.Context, name string, permissions []string, isDefault bool) (Role, error) {
	var role Role
	err := r.pool.QueryRow(ctx,
		`INSERT INTO roles (name, permissions, is_default, created_at, updated_at)
		 VALUES ($1, $2, $3, now(), now())
		 RETURNING id, name, permissions, is_default, created_at, updated_at`,
		name, permissions, isDefault,
	).Scan(&role.ID, &role.Name, &role.Permissions, &role.IsDefault, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Role{}, ErrRoleExists
		}
		return Role{}, err
	}
	return role, nil
}

// ReplaceRolePermissions swaps the role's permission set atomically.
func (r *PGRepository) ReplaceRolePermissions(ctx context.Context, id int64, permissions []string) (Role, error) {
	var role Role
	err := r.pool.QueryRow(ctx,
		`UPDATE roles SET permissions = $2, updated_at = now() WHERE id = $1
		 RETURNING id, name, permissions, is_default, created_at, updated_at`,
		id, permissions,
	).Scan(&role.ID, &role.Name, &role.Permissions, &role.IsDefault, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, ErrNotFound
		}
		return Role{}, err
	}
	return role, nil
}

// SetRoleDefault toggles the auto-assign-at-registration flag.
func (r *PGRepository) SetRoleDefault(ctx context.Context, id int64, isDefault bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE roles SET is_default = $2, updated_at = now() WHERE id = $1`, id, isDefault)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AssignRole binds a role to a user.
func (r *PGRepository) AssignRole(ctx context.Context, userID, roleID int64) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_roles (user_id, role_id, created_at) VALUES ($1, $2, now())`,
		userID, roleID)
	return translateAssignError(err)
}

// RevokeRole removes a binding. Returns ErrNotFound when no binding existed.
func (r *PGRepository) RevokeRole(ctx context.Context, userID, roleID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`, userID, roleID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RolesOf returns the roles bound to a user in one consistent read, so an
// authorization decision never observes a role mid-update.
func (r *PGRepository) RolesOf(ctx context.Context, userID int64) ([]Role, error) {
	return scanRoles(ctx, r.pool,
		`SELECT r.id, r.name, r.permissions, r.is_default, r.created_at, r.updated_at
		 FROM roles r JOIN user_roles ur ON ur.role_id = r.id
		 WHERE ur.user_id = $1 ORDER BY r.name`, userID)
}

// UserExists reports whether a user record exists.
func (r *PGRepository) UserExists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists)
	return exists, err
}

// WithTx runs fn inside a RepeatableRead transaction.
func (r *PGRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &pgTxRepository{tx: tx})
	})
}

type pgTxRepository struct {
	tx pgx.Tx
}

func (r *pgTxRepository) GetRole(ctx context.Context, id int64) (Role, error) {
	return getRole(ctx, r.tx, id)
}

// RoleIDsHolding lists role IDs whose permission set contains the
// permission. The rows are locked: two transactions deleting different
// admin-capable roles must serialize here, or both could count two holders
// and leave zero behind.
func (r *pgTxRepository) RoleIDsHolding(ctx context.Context, permission string) ([]int64, error) {
	rows, err := r.tx.Query(ctx,
		`SELECT id FROM roles WHERE $1 = ANY(permissions) FOR UPDATE`, permission)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteRole removes the role and cascades its bindings. No binding may
// outlive its role.
func (r *pgTxRepository) DeleteRole(ctx context.Context, id int64) error {
	if _, err := r.tx.Exec(ctx, `DELETE FROM user_roles WHERE role_id = $1`, id); err != nil {
		return err
	}
	tag, err := r.tx.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func getRole(ctx context.Context, q querier, id int64) (Role, error) {
	var role Role
	err := q.QueryRow(ctx,
		`SELECT id, name, permissions, is_default, created_at, updated_at FROM roles WHERE id = $1`,
		id,
	).Scan(&role.ID, &role.Name, &role.Permissions, &role.IsDefault, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, ErrNotFound
		}
		return Role{}, err
	}
	return role, nil
}

func scanRoles(ctx context.Context, q querier, sql string, args ...any) ([]Role, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Permissions, &role.IsDefault, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// translateAssignError maps constraint violations on user_roles to domain
// errors. A duplicate binding is a conflict; a user or role deleted between
// the service's existence checks and the insert surfaces as a foreign key
// violation and is reported as not found, not a server fault.
func translateAssignError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return ErrAlreadyAssigned
		case foreignKeyViolation:
			return fmt.Errorf("%w: user or role", ErrNotFound)
		}
	}
	return err
}
