package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/mekarlab/billing-api/internal/models"
	"github.com/mekarlab/billing-api/internal/utils"
)

// UserStore is the persistence surface AuthService needs.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	CountByRole(ctx context.Context, role string) (int, error)
}

// AuthService handles credential verification, user registration, and token
// issuance. The signing secret is injected at construction; there is no
// process-wide fallback.
type AuthService struct {
	users      UserStore
	secret     []byte
	tokenTTL   time.Duration
	bcryptCost int
}

// NewAuthService constructs an AuthService.
func NewAuthService(users UserStore, secret string, tokenTTL time.Duration, bcryptCost int) *AuthService {
	return &AuthService{
		users:      users,
		secret:     []byte(secret),
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
	}
}

// Login verifies a username/password pair and returns a signed access token
// plus the account's role. Unknown users and wrong passwords are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", "", err
	}
	if user == nil {
		log.Debug().Str("username", username).Msg("login for unknown user")
		return "", "", utils.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Debug().Str("username", username).Msg("password verification failed")
		return "", "", utils.ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.Username, user.Role, s.secret, s.tokenTTL)
	if err != nil {
		return "", "", err
	}

	log.Info().Str("username", username).Str("role", user.Role).Msg("login successful")
	return token, user.Role, nil
}

// Register creates a new user. An unknown role falls back to staff; a taken
// username yields ErrUserExists.
func (s *AuthService) Register(ctx context.Context, username, password, role string) (*models.User, error) {
	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.ErrUserExists
	}

	if !models.IsValidRole(role) {
		role = models.RoleStaff
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Info().Str("username", username).Str("role", role).Msg("user registered")
	return user, nil
}

// EnsureAdmin creates the bootstrap admin account when no admin exists yet.
// A blank password skips bootstrapping (fresh deployments must opt in).
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	if password == "" {
		return nil
	}
	n, err := s.users.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if _, err := s.Register(ctx, username, password, models.RoleAdmin); err != nil {
		return err
	}
	log.Info().Str("username", username).Msg("bootstrap admin created")
	return nil
}
