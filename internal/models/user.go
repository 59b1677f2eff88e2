package models

import "time"

// Role values assignable to a user account.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User represents an account that can authenticate against the API.
// The password hash is never serialized.
type User struct {
	ID           int       `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// IsValidRole reports whether role is one of the known roles.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleStaff
}
