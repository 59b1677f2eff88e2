package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/mekarlab/billing-api/internal/models"
)

// UserRepository handles data access for users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByUsername returns a user by username, or nil if no such user exists.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	const q = `SELECT * FROM users WHERE username = $1 LIMIT 1`
	var u models.User
	if err := r.db.GetContext(ctx, &u, q, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user row.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	const q = `
        INSERT INTO users (username, password_hash, role)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`
	return r.db.QueryRowxContext(ctx, q, user.Username, user.PasswordHash, user.Role).
		Scan(&user.ID, &user.CreatedAt)
}

// CountByRole returns the number of users with the given role.
func (r *UserRepository) CountByRole(ctx context.Context, role string) (int, error) {
	const q = `SELECT COUNT(1) FROM users WHERE role = $1`
	var n int
	if err := r.db.GetContext(ctx, &n, q, role); err != nil {
		return 0, err
	}
	return n, nil
}
