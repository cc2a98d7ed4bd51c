package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainvault/chainvault-api/internal/auth"
	"github.com/chainvault/chainvault-api/internal/config"
	"github.com/chainvault/chainvault-api/internal/logger"
)

const testUserID = "123456789012345678"

func init() {
	gin.SetMode(gin.TestMode)
	logger.InitLogger("test")
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Port:             "8080",
		Stage:            "test",
		EncryptionSecret: strings.Repeat("s", 32),
		RateLimit:        3,
		RateWindowMS:     60000,
		AllowedOrigins:   []string{"*"},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()

	srv, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	return srv
}

func get(srv *Server, path string, apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestServer_HealthBypassesAuth(t *testing.T) {
	srv := newTestServer(t, testConfig(t))

	w := get(srv, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_APIKeyGate(t *testing.T) {
	apiKey, _, err := auth.GenerateAPIKey()
	require.NoError(t, err)
	hash, err := auth.HashAPIKey(apiKey)
	require.NoError(t, err)

	cfg := testConfig(t)
	cfg.APIKeyHash = hash
	srv := newTestServer(t, cfg)

	t.Run("rejects a missing key", func(t *testing.T) {
		w := get(srv, "/api/v1/wallets/"+testUserID+"/exists", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects a wrong key", func(t *testing.T) {
		w := get(srv, "/api/v1/wallets/"+testUserID+"/exists", "cvk_wrong")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("admits the configured key", func(t *testing.T) {
		w := get(srv, "/api/v1/wallets/"+testUserID+"/exists", apiKey)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestServer_RateLimitsUserRoutes(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit = 2
	srv := newTestServer(t, cfg)

	path := "/api/v1/wallets/" + testUserID + "/exists"
	for i := 0; i < 2; i++ {
		w := get(srv, path, "")
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := get(srv, path, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestServer_UnknownRoute(t *testing.T) {
	srv := newTestServer(t, testConfig(t))

	w := get(srv, "/api/v1/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
