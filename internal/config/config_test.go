package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvLocal, cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, DefaultJWTSecret, cfg.Auth.JWTSecret)
	assert.Equal(t, 24, cfg.Auth.JWTExpiryHours)
	assert.Equal(t, 24*time.Hour, cfg.Auth.Expiry())
	assert.True(t, cfg.Auth.IsDefaultSecret())
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "prod")
	t.Setenv("HTTP_ADDR", "127.0.0.1:9090")
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("JWT_EXPIRY_HOURS", "2")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvProd, cfg.Env)
	assert.Equal(t, "127.0.0.1:9090", cfg.HTTP.Addr)
	assert.Equal(t, "s3cr3t", cfg.Auth.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.Auth.Expiry())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("JWT_EXPIRY_HOURS=6\n"), 0o600))
	t.Chdir(dir)
	// registers cleanup so the variable godotenv sets does not leak
	t.Setenv("JWT_EXPIRY_HOURS", "")
	require.NoError(t, os.Unsetenv("JWT_EXPIRY_HOURS"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Auth.JWTExpiryHours)
}

func TestLoad_RejectsDefaultSecretInProd(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "prod")

	_, err := Load()
	require.EqualError(t, err, "JWT_SECRET must be set in prod")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "ok",
			cfg:  Config{Env: EnvDev, Auth: AuthConfig{JWTSecret: "k", JWTExpiryHours: 1}},
		},
		{
			name:    "unknown env",
			cfg:     Config{Env: "staging", Auth: AuthConfig{JWTSecret: "k", JWTExpiryHours: 1}},
			wantErr: `invalid APP_ENV "staging"`,
		},
		{
			name:    "empty secret",
			cfg:     Config{Env: EnvLocal, Auth: AuthConfig{JWTExpiryHours: 1}},
			wantErr: "JWT_SECRET is required",
		},
		{
			name:    "zero expiry",
			cfg:     Config{Env: EnvLocal, Auth: AuthConfig{JWTSecret: "k"}},
			wantErr: "invalid JWT_EXPIRY_HOURS 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestPostgresURL(t *testing.T) {
	t.Run("database url wins", func(t *testing.T) {
		u, err := PostgresConfig{DatabaseURL: "postgres://x", User: "ignored"}.URL()
		require.NoError(t, err)
		assert.Equal(t, "postgres://x", u)
	})

	t.Run("built from parts", func(t *testing.T) {
		u, err := PostgresConfig{
			Host: "db", Port: "5433", User: "app", Password: "p@ss", Database: "users", SSLMode: "require",
		}.URL()
		require.NoError(t, err)
		assert.Equal(t, "postgres://app:p%40ss@db:5433/users?sslmode=require", u)
	})

	t.Run("missing parts", func(t *testing.T) {
		_, err := PostgresConfig{Host: "db", Port: "5432"}.URL()
		require.Error(t, err)
	})
}
