package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pricelab/pricelab/internal/platform/db"
	"github.com/pricelab/pricelab/internal/platform/httpx"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]User, error)
	CreateUser(ctx context.Context, email, name, passwordHash string) (User, error)
	SetVerified(ctx context.Context, userID int64, verified bool) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ RepositoryPort = (*Repository)(nil)

// ListUsers returns all users ordered by ID.
func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, email, name, is_verified, created_at, updated_at FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []User
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.IsVerified, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// CreateUser inserts the account and binds every default-flagged role in the
// same transaction, so a registered user never exists without its defaults.
func (r *Repository) CreateUser(ctx context.Context, email, name, passwordHash string) (User, error) {
	var user User
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO users (email, name, password_hash, is_verified, created_at, updated_at)
			 VALUES ($1, $2, $3, false, now(), now())
			 RETURNING id, email, name, is_verified, created_at, updated_at`,
			email, name, passwordHash,
		).Scan(&user.ID, &user.Email, &user.Name, &user.IsVerified, &user.CreatedAt, &user.UpdatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return fmt.Errorf("users: email taken: %w", httpx.ErrConflict)
			}
			return err
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO user_roles (user_id, role_id, created_at)
			 SELECT $1, id, now() FROM roles WHERE is_default`, user.ID)
		return err
	})
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// SetVerified updates the verification flag.
func (r *Repository) SetVerified(ctx context.Context, userID int64, verified bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET is_verified = $2, updated_at = now() WHERE id = $1`, userID, verified)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
