package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AncientiCe/user-mgmt-api/internal/config"
	"github.com/AncientiCe/user-mgmt-api/internal/logging"
	"github.com/AncientiCe/user-mgmt-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubSchema(t *testing.T, err error) *int {
	t.Helper()
	calls := 0
	orig := ensureSchema
	ensureSchema = func(context.Context, *pgxpool.Pool) error {
		calls++
		return err
	}
	t.Cleanup(func() { ensureSchema = orig })
	return &calls
}

func testConfig() config.Config {
	return config.Config{
		Env:  config.EnvLocal,
		Auth: config.AuthConfig{JWTSecret: "k", JWTExpiryHours: 24},
		CORS: config.CORSConfig{AllowedOrigins: []string{"*"}},
	}
}

func TestNew(t *testing.T) {
	gin.SetMode(gin.TestMode)
	calls := stubSchema(t, nil)

	h, err := New(context.Background(), nil, testConfig(), logging.New(config.EnvLocal, io.Discard))
	require.NoError(t, err)
	assert.Equal(t, 1, *calls)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNew_SchemaError(t *testing.T) {
	stubSchema(t, errors.New("relation lock timeout"))

	_, err := New(context.Background(), nil, testConfig(), logging.New(config.EnvLocal, io.Discard))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ensure schema")
}

func TestNew_InvalidAuthConfig(t *testing.T) {
	stubSchema(t, nil)

	cfg := testConfig()
	cfg.Auth.JWTExpiryHours = 0

	_, err := New(context.Background(), nil, cfg, logging.New(config.EnvLocal, io.Discard))
	assert.ErrorIs(t, err, service.ErrMisconfigured)
}
