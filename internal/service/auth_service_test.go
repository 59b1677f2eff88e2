package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mekarlab/billing-api/internal/models"
	"github.com/mekarlab/billing-api/internal/utils"
)

// fakeUserStore is an in-memory UserStore for service tests.
type fakeUserStore struct {
	users  map[string]*models.User
	nextID int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User), nextID: 1}
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()
	copied := *user
	f.users[user.Username] = &copied
	return nil
}

func (f *fakeUserStore) CountByRole(_ context.Context, role string) (int, error) {
	n := 0
	for _, u := range f.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func newTestAuthService(store *fakeUserStore) *AuthService {
	return NewAuthService(store, "test-secret", 2*time.Hour, bcrypt.MinCost)
}

func TestRegisterAndLogin(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestAuthService(store)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "password123", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, models.RoleAdmin, user.Role)
	// Stored hash must never be the plaintext.
	assert.NotEqual(t, "password123", user.PasswordHash)

	token, role, err := svc.Login(ctx, "alice", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, models.RoleAdmin, role)

	claims, err := utils.ValidateJWT(token, []byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestAuthService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "password123", models.RoleStaff)
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	svc := newTestAuthService(newFakeUserStore())

	_, _, err := svc.Login(context.Background(), "nobody", "whatever")
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestAuthService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "password123", models.RoleStaff)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "other-password", models.RoleStaff)
	assert.ErrorIs(t, err, utils.ErrUserExists)
}

func TestRegister_UnknownRoleFallsBackToStaff(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestAuthService(store)

	user, err := svc.Register(context.Background(), "bob", "password123", "superuser")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, user.Role)
}

func TestEnsureAdmin(t *testing.T) {
	t.Run("blank password skips bootstrap", func(t *testing.T) {
		store := newFakeUserStore()
		svc := newTestAuthService(store)

		require.NoError(t, svc.EnsureAdmin(context.Background(), "admin", ""))
		assert.Empty(t, store.users)
	})

	t.Run("creates admin on empty database", func(t *testing.T) {
		store := newFakeUserStore()
		svc := newTestAuthService(store)

		require.NoError(t, svc.EnsureAdmin(context.Background(), "admin", "bootstrap-pass"))
		u, ok := store.users["admin"]
		require.True(t, ok)
		assert.Equal(t, models.RoleAdmin, u.Role)
	})

	t.Run("skips when an admin already exists", func(t *testing.T) {
		store := newFakeUserStore()
		svc := newTestAuthService(store)
		ctx := context.Background()

		_, err := svc.Register(ctx, "root", "password123", models.RoleAdmin)
		require.NoError(t, err)

		require.NoError(t, svc.EnsureAdmin(ctx, "admin", "bootstrap-pass"))
		_, ok := store.users["admin"]
		assert.False(t, ok)
	})
}
