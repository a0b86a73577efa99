// Package app assembles the user management API from its parts.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/AncientiCe/user-mgmt-api/internal/config"
	"github.com/AncientiCe/user-mgmt-api/internal/db"
	"github.com/AncientiCe/user-mgmt-api/internal/handler"
	"github.com/AncientiCe/user-mgmt-api/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ensureSchema is a seam for tests.
var ensureSchema = db.EnsureSchema

// New migrates the users schema and returns the HTTP handler serving the
// API. The caller owns the pool and must keep it open while serving.
func New(ctx context.Context, pool *pgxpool.Pool, cfg config.Config, log *slog.Logger) (http.Handler, error) {
	if err := ensureSchema(ctx, pool); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	authService, err := service.NewAuthService(db.NewPostgres(pool), cfg.Auth)
	if err != nil {
		return nil, err
	}

	return handler.NewRouter(authService, cfg.CORS, log), nil
}
