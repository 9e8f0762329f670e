package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kantin-app/kantin/config"
	"github.com/kantin-app/kantin/middlewares"
	"github.com/kantin-app/kantin/models"
	"github.com/kantin-app/kantin/utils"
)

func init() {
	config.SecretKey = []byte("test-secret")
}

func protectedEcho(t *testing.T, wantID uuid.UUID, wantRole models.Role) http.Handler {
	return middlewares.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := middlewares.GetAuthenticatedUser(r)
		require.NoError(t, err)
		assert.Equal(t, wantID, claims.UserID)
		assert.Equal(t, wantRole, claims.Role)
		w.WriteHeader(http.StatusOK)
	}))
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/orders", nil)

	protectedEcho(t, uuid.Nil, "").ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing token")
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	for _, header := range []string{"Token abc", "bearer", "abc"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/orders", nil)
		req.Header.Set("Authorization", header)

		protectedEcho(t, uuid.Nil, "").ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")

	protectedEcho(t, uuid.Nil, "").ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid token")
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	claims := &middlewares.Claims{
		UserID: uuid.New(),
		Role:   models.RoleCustomer,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(config.SecretKey)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	protectedEcho(t, claims.UserID, models.RoleCustomer).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareAttachesClaims(t *testing.T) {
	userID := uuid.New()
	token, err := utils.GenerateAccessToken(userID, models.RoleCustomer)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	protectedEcho(t, userID, models.RoleCustomer).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoleBasedMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	adminOnly := middlewares.AuthMiddleware(
		middlewares.RoleBasedMiddleware(models.RoleAdmin)(ok))

	customerToken, err := utils.GenerateAccessToken(uuid.New(), models.RoleCustomer)
	require.NoError(t, err)
	adminToken, err := utils.GenerateAccessToken(uuid.New(), models.RoleAdmin)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/menu", nil)
	req.Header.Set("Authorization", "Bearer "+customerToken)
	adminOnly.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient role")

	rec = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/api/menu", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	adminOnly.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
