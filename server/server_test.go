package server_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kantin-app/kantin/config"
	"github.com/kantin-app/kantin/models"
	"github.com/kantin-app/kantin/server"
	"github.com/kantin-app/kantin/utils"
)

func init() {
	config.SecretKey = []byte("test-secret")
}

func TestHealth(t *testing.T) {
	svr := server.SetupRoutes()

	rec := httptest.NewRecorder()
	svr.Router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"alive": true}`, rec.Body.String())
}

// Catalog writes reject unauthenticated callers before any validation or
// store access runs.
func TestMenuWritesRequireAuth(t *testing.T) {
	svr := server.SetupRoutes()

	for _, tc := range []struct{ method, path string }{
		{"POST", "/api/menu"},
		{"PUT", "/api/menu/" + uuid.NewString()},
		{"DELETE", "/api/menu/" + uuid.NewString()},
	} {
		rec := httptest.NewRecorder()
		svr.Router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestMenuWritesRequireAdmin(t *testing.T) {
	svr := server.SetupRoutes()

	token, err := utils.GenerateAccessToken(uuid.New(), models.RoleCustomer)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/menu", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	svr.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestOrderRoutesRequireAuth(t *testing.T) {
	svr := server.SetupRoutes()

	for _, tc := range []struct{ method, path string }{
		{"GET", "/api/orders"},
		{"POST", "/api/orders"},
		{"GET", "/api/orders/" + uuid.NewString()},
		{"PUT", "/api/orders/" + uuid.NewString()},
		{"DELETE", "/api/orders/" + uuid.NewString()},
	} {
		rec := httptest.NewRecorder()
		svr.Router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}
