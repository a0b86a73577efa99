package db

import (
	"context"

	"github.com/AncientiCe/user-mgmt-api/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, display_name, created_at, updated_at`

func (db *Postgres) CreateUser(ctx context.Context, email, passwordHash, displayName string) (*model.User, error) {
	query := `
		INSERT INTO users (email, password_hash, display_name)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	return scanUser(db.Pool.QueryRow(ctx, query, email, passwordHash, displayName))
}

func (db *Postgres) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`
	return scanUser(db.Pool.QueryRow(ctx, query, id))
}

// GetUserByEmail also returns the stored password hash. Only login needs it.
func (db *Postgres) GetUserByEmail(ctx context.Context, email string) (*model.User, string, error) {
	query := `
		SELECT ` + userColumns + `, password_hash
		FROM users
		WHERE email = $1
	`
	var (
		user model.User
		hash string
	)
	err := db.Pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.CreatedAt,
		&user.UpdatedAt,
		&hash,
	)
	if err != nil {
		return nil, "", err
	}
	return &user, hash, nil
}

// UpdateDisplayName relies on the users_updated_at trigger to refresh updated_at.
func (db *Postgres) UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) (*model.User, error) {
	query := `
		UPDATE users
		SET display_name = $1
		WHERE id = $2
		RETURNING ` + userColumns

	return scanUser(db.Pool.QueryRow(ctx, query, displayName, id))
}

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
