package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mekarlab/billing-api/internal/models"
	"github.com/mekarlab/billing-api/internal/utils"
)

// UserResolver looks up an account by username. A (nil, nil) return means
// the account does not exist.
type UserResolver interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthMiddleware verifies bearer tokens and gates routes by role. A token is
// only as good as the account behind it: the username is re-resolved on
// every request, so tokens for deleted users are rejected.
type AuthMiddleware struct {
	secret      []byte
	users       UserResolver
	rateLimiter *InvalidAuthRateLimiter
}

// NewAuthMiddleware constructs an AuthMiddleware.
func NewAuthMiddleware(secret string, users UserResolver) *AuthMiddleware {
	return &AuthMiddleware{
		secret:      []byte(secret),
		users:       users,
		rateLimiter: NewInvalidAuthRateLimiter(),
	}
}

// Handle returns a Gin middleware that authenticates the request and stores
// username and role in the context.
func (m *AuthMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			m.handleAuthError(c, "UNAUTHORIZED", "Missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			m.handleAuthError(c, "UNAUTHORIZED", "Invalid authorization header")
			return
		}

		claims, err := utils.ValidateJWT(parts[1], m.secret)
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				m.handleAuthError(c, "TOKEN_EXPIRED", "Token has expired")
				return
			}
			m.handleAuthError(c, "INVALID_TOKEN", "Invalid token")
			return
		}

		user, err := m.users.GetByUsername(c.Request.Context(), claims.Subject)
		if err != nil {
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to resolve user")
			c.Abort()
			return
		}
		if user == nil {
			m.handleAuthError(c, "UNAUTHORIZED", "User no longer exists")
			return
		}

		// Role comes from the account, not the token, so a role change
		// takes effect before the old token expires.
		c.Set("username", user.Username)
		c.Set("role", user.Role)
		c.Next()
	}
}

// RequireAdmin gates a route to admin accounts. Must run after Handle.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != models.RoleAdmin {
			utils.Error(c, 403, "FORBIDDEN", "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireStaffOrAdmin gates a route to staff and admin accounts. Must run
// after Handle.
func (m *AuthMiddleware) RequireStaffOrAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role != models.RoleAdmin && role != models.RoleStaff {
			utils.Error(c, 403, "FORBIDDEN", "Staff or admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) handleAuthError(c *gin.Context, code, message string) {
	// Rate limit repeated invalid auth attempts per source IP.
	if !m.rateLimiter.Allow(c.ClientIP()) {
		utils.Error(c, 429, "TOO_MANY_REQUESTS", "Too many invalid authentication attempts")
		c.Abort()
		return
	}

	utils.Error(c, 401, code, message)
	c.Abort()
}
