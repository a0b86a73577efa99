package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userCols = []string{"id", "email", "display_name", "created_at", "updated_at"}

func newMockStore(t *testing.T) (*Postgres, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return NewPostgres(mock), mock
}

func TestCreateUser_Success(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO users \(email, password_hash, display_name\)`).
		WithArgs("a@x.com", "hash", "Ann").
		WillReturnRows(pgxmock.NewRows(userCols).AddRow(id, "a@x.com", "Ann", now, now))

	user, err := store.CreateUser(context.Background(), "a@x.com", "hash", "Ann")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, "Ann", user.DisplayName)
	assert.Equal(t, now, user.CreatedAt)
}

func TestCreateUser_UniqueViolation(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("a@x.com", "hash", "Ann").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := store.CreateUser(context.Background(), "a@x.com", "hash", "Ann")
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.False(t, IsNoRows(err))
}

func TestGetUserByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		store, mock := newMockStore(t)
		id := uuid.New()
		now := time.Now().UTC()

		mock.ExpectQuery(`SELECT id, email, display_name, created_at, updated_at\s+FROM users\s+WHERE id = \$1`).
			WithArgs(pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows(userCols).AddRow(id, "b@x.com", "Bob", now, now))

		user, err := store.GetUserByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, "Bob", user.DisplayName)
	})

	t.Run("missing", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectQuery(`FROM users\s+WHERE id = \$1`).
			WithArgs(pgxmock.AnyArg()).
			WillReturnError(pgx.ErrNoRows)

		_, err := store.GetUserByID(context.Background(), uuid.New())
		assert.True(t, IsNoRows(err))
	})
}

func TestGetUserByEmail_ReturnsHash(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, email, display_name, created_at, updated_at, password_hash\s+FROM users\s+WHERE email = \$1`).
		WithArgs("a@x.com").
		WillReturnRows(pgxmock.NewRows(append(userCols, "password_hash")).
			AddRow(id, "a@x.com", "Ann", now, now, "$2a$10$hash"))

	user, hash, err := store.GetUserByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "$2a$10$hash", hash)
}

func TestGetUserByEmail_DBError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`WHERE email = \$1`).
		WithArgs("a@x.com").
		WillReturnError(errors.New("db down"))

	_, _, err := store.GetUserByEmail(context.Background(), "a@x.com")
	require.EqualError(t, err, "db down")
	assert.False(t, IsNoRows(err))
}

func TestUpdateDisplayName(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()
	created := time.Now().Add(-time.Hour).UTC()
	updated := time.Now().UTC()

	mock.ExpectQuery(`UPDATE users\s+SET display_name = \$1\s+WHERE id = \$2`).
		WithArgs("Annie", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(userCols).AddRow(id, "a@x.com", "Annie", created, updated))

	user, err := store.UpdateDisplayName(context.Background(), id, "Annie")
	require.NoError(t, err)
	assert.Equal(t, "Annie", user.DisplayName)
	assert.True(t, user.UpdatedAt.After(user.CreatedAt))
}

func TestIsUniqueViolation_OtherCodes(t *testing.T) {
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("plain")))
	assert.False(t, IsUniqueViolation(nil))
}
