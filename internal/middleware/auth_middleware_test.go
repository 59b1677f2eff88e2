package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mekarlab/billing-api/internal/models"
	"github.com/mekarlab/billing-api/internal/utils"
)

const testSecret = "test-secret"

// fakeUserResolver serves accounts from a map; missing usernames resolve to
// (nil, nil) like the real repository.
type fakeUserResolver struct {
	users map[string]*models.User
}

func (f *fakeUserResolver) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return f.users[username], nil
}

func newTestRouter(resolver *fakeUserResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	authMw := NewAuthMiddleware(testSecret, resolver)

	router := gin.New()
	authed := router.Group("/", authMw.Handle())
	authed.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"username": c.GetString("username"),
			"role":     c.GetString("role"),
		})
	})
	authed.GET("/admin-only", authMw.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	authed.GET("/staff-only", authMw.RequireStaffOrAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func issueToken(t *testing.T, username, role string, ttl time.Duration) string {
	t.Helper()
	token, err := utils.GenerateJWT(username, role, []byte(testSecret), ttl)
	require.NoError(t, err)
	return token
}

func doRequest(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	router := newTestRouter(&fakeUserResolver{users: map[string]*models.User{}})

	w := doRequest(router, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	router := newTestRouter(&fakeUserResolver{users: map[string]*models.User{}})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Basic abc123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	router := newTestRouter(&fakeUserResolver{users: map[string]*models.User{}})

	w := doRequest(router, "/me", "not.a.token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	resolver := &fakeUserResolver{users: map[string]*models.User{
		"alice": {ID: 1, Username: "alice", Role: models.RoleStaff},
	}}
	router := newTestRouter(resolver)

	w := doRequest(router, "/me", issueToken(t, "alice", models.RoleStaff, -time.Minute))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
}

func TestAuthMiddleware_DeletedUser(t *testing.T) {
	// Token is valid but the account behind it is gone.
	router := newTestRouter(&fakeUserResolver{users: map[string]*models.User{}})

	w := doRequest(router, "/me", issueToken(t, "ghost", models.RoleStaff, time.Hour))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	resolver := &fakeUserResolver{users: map[string]*models.User{
		"alice": {ID: 1, Username: "alice", Role: models.RoleStaff},
	}}
	router := newTestRouter(resolver)

	w := doRequest(router, "/me", issueToken(t, "alice", models.RoleStaff, time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
	assert.Contains(t, w.Body.String(), `"role":"staff"`)
}

func TestAuthMiddleware_RoleFromAccountNotToken(t *testing.T) {
	// The account was demoted to staff after the admin token was issued;
	// the account wins.
	resolver := &fakeUserResolver{users: map[string]*models.User{
		"alice": {ID: 1, Username: "alice", Role: models.RoleStaff},
	}}
	router := newTestRouter(resolver)

	w := doRequest(router, "/admin-only", issueToken(t, "alice", models.RoleAdmin, time.Hour))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	resolver := &fakeUserResolver{users: map[string]*models.User{
		"alice": {ID: 1, Username: "alice", Role: models.RoleAdmin},
		"bob":   {ID: 2, Username: "bob", Role: models.RoleStaff},
	}}
	router := newTestRouter(resolver)

	w := doRequest(router, "/admin-only", issueToken(t, "alice", models.RoleAdmin, time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, "/admin-only", issueToken(t, "bob", models.RoleStaff, time.Hour))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}

func TestRequireStaffOrAdmin(t *testing.T) {
	resolver := &fakeUserResolver{users: map[string]*models.User{
		"alice": {ID: 1, Username: "alice", Role: models.RoleAdmin},
		"bob":   {ID: 2, Username: "bob", Role: models.RoleStaff},
	}}
	router := newTestRouter(resolver)

	w := doRequest(router, "/staff-only", issueToken(t, "alice", models.RoleAdmin, time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, "/staff-only", issueToken(t, "bob", models.RoleStaff, time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInvalidAuthRateLimiter(t *testing.T) {
	rl := NewInvalidAuthRateLimiter()

	for i := 0; i < 5; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "attempt %d should be allowed", i+1)
	}
	assert.False(t, rl.Allow("10.0.0.1"))

	// Other IPs are unaffected.
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestAuthMiddleware_RateLimitsInvalidAttempts(t *testing.T) {
	router := newTestRouter(&fakeUserResolver{users: map[string]*models.User{}})

	var last *httptest.ResponseRecorder
	for i := 0; i < 6; i++ {
		last = doRequest(router, "/me", "not.a.token")
	}
	assert.Equal(t, http.StatusTooManyRequests, last.Code)
}
