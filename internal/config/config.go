package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// DefaultJWTSecret is a development placeholder. Never deploy with it.
const DefaultJWTSecret = "your-super-secret-jwt-key-change-in-production"

type Config struct {
	Env      string `env:"APP_ENV" envDefault:"local"`
	HTTP     HTTPConfig
	Postgres PostgresConfig
	Auth     AuthConfig
	CORS     CORSConfig
}

type HTTPConfig struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type PostgresConfig struct {
	DatabaseURL string `env:"DATABASE_URL"`
	Host        string `env:"PGHOST" envDefault:"localhost"`
	Port        string `env:"PGPORT" envDefault:"5432"`
	User        string `env:"PGUSER"`
	Password    string `env:"PGPASSWORD"`
	Database    string `env:"PGDATABASE"`
	SSLMode     string `env:"PGSSLMODE" envDefault:"disable"`
}

// AuthConfig is shared by token signing and verification.
type AuthConfig struct {
	JWTSecret      string `env:"JWT_SECRET" envDefault:"your-super-secret-jwt-key-change-in-production"`
	JWTExpiryHours int    `env:"JWT_EXPIRY_HOURS" envDefault:"24"`
}

type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`
}

// Load reads an optional .env file from the working directory, then the
// process environment. Variables already set in the environment win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("invalid APP_ENV %q", c.Env)
	}

	if err := c.Auth.Validate(); err != nil {
		return err
	}

	if c.Env == EnvProd && c.Auth.IsDefaultSecret() {
		return errors.New("JWT_SECRET must be set in prod")
	}
	return nil
}

func (a AuthConfig) Validate() error {
	if a.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if a.JWTExpiryHours <= 0 {
		return fmt.Errorf("invalid JWT_EXPIRY_HOURS %d", a.JWTExpiryHours)
	}
	return nil
}

func (a AuthConfig) IsDefaultSecret() bool {
	return a.JWTSecret == DefaultJWTSecret
}

func (a AuthConfig) Expiry() time.Duration {
	return time.Duration(a.JWTExpiryHours) * time.Hour
}

// URL prefers DATABASE_URL and falls back to the libpq-style PG* variables.
func (p PostgresConfig) URL() (string, error) {
	if p.DatabaseURL != "" {
		return p.DatabaseURL, nil
	}

	if p.User == "" || p.Database == "" {
		return "", errors.New("missing required env: DATABASE_URL or PGUSER/PGDATABASE")
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(p.Host, p.Port),
		Path:   p.Database,
	}
	if p.Password == "" {
		u.User = url.User(p.User)
	} else {
		u.User = url.UserPassword(p.User, p.Password)
	}
	q := u.Query()
	q.Set("sslmode", p.SSLMode)
	u.RawQuery = q.Encode()

	return u.String(), nil
}
