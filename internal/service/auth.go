package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/AncientiCe/user-mgmt-api/internal/config"
	"github.com/AncientiCe/user-mgmt-api/internal/db"
	"github.com/AncientiCe/user-mgmt-api/internal/model"
	"github.com/google/uuid"
)

const (
	minPasswordLength = 6
	bearerPrefix      = "Bearer "
)

// UserRepository is the credential store. Absence is reported with
// pgx.ErrNoRows and email conflicts with a unique-violation PgError.
type UserRepository interface {
	CreateUser(ctx context.Context, email, passwordHash, displayName string) (*model.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, string, error)
	UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) (*model.User, error)
}

type AuthService struct {
	repo   UserRepository
	hasher *PasswordHasher
	tokens *TokenCodec
}

type Option func(*options)

type options struct {
	now      func() time.Time
	hashCost int
}

// WithClock overrides the wall clock used for token timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithHashCost overrides the bcrypt cost.
func WithHashCost(cost int) Option {
	return func(o *options) { o.hashCost = cost }
}

func NewAuthService(repo UserRepository, cfg config.AuthConfig, opts ...Option) (*AuthService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMisconfigured, err)
	}

	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return &AuthService{
		repo:   repo,
		hasher: NewPasswordHasher(o.hashCost),
		tokens: NewTokenCodec(cfg, o.now),
	}, nil
}

func (s *AuthService) Register(ctx context.Context, email, password, displayName string) (*model.User, error) {
	if err := validateRegistration(email, password, displayName); err != nil {
		return nil, err
	}

	_, _, err := s.repo.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailExists
	}
	if !db.IsNoRows(err) {
		return nil, internal(err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.CreateUser(ctx, email, hash, displayName)
	if err != nil {
		// a concurrent registration won the race for this email
		if db.IsUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, internal(err)
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	// bcrypt compares only the first 72 bytes, so longer input never matches
	if len(password) > maxPasswordBytes {
		return nil, ErrInvalidCredentials
	}

	user, hash, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrUserNotFound
		}
		return nil, internal(err)
	}

	ok, err := s.hasher.Verify(password, hash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:     token,
		User:      user,
		ExpiresAt: expiresAt,
	}, nil
}

// Authenticate resolves a bearer token to the user it was issued for.
// A valid token whose user no longer exists fails with ErrUserNotFound.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return s.GetProfile(ctx, userID)
}

// Authorize takes the raw Authorization header value. Anything other
// than a non-empty "Bearer <token>" is rejected with ErrInvalidToken.
func (s *AuthService) Authorize(ctx context.Context, header string) (*model.User, error) {
	token, ok := bearerToken(header)
	if !ok {
		return nil, ErrInvalidToken
	}
	return s.Authenticate(ctx, token)
}

func (s *AuthService) GetProfile(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrUserNotFound
		}
		return nil, internal(err)
	}
	return user, nil
}

// UpdateProfile lets a user change only their own profile. A mismatch
// between requester and target is reported as ErrInvalidCredentials.
func (s *AuthService) UpdateProfile(ctx context.Context, requesterID, targetID uuid.UUID, req model.UpdateUserRequest) (*model.User, error) {
	if requesterID != targetID {
		return nil, ErrInvalidCredentials
	}

	if req.DisplayName == nil {
		return s.GetProfile(ctx, targetID)
	}
	if *req.DisplayName == "" {
		return nil, invalid("Display name cannot be empty")
	}

	user, err := s.repo.UpdateDisplayName(ctx, targetID, *req.DisplayName)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrUserNotFound
		}
		return nil, internal(err)
	}
	return user, nil
}

func validateRegistration(email, password, displayName string) error {
	if email == "" || password == "" || displayName == "" {
		return invalid("All fields are required")
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return invalid("Password must be at least 6 characters")
	}
	if len(password) > maxPasswordBytes {
		return invalid("Password must be at most 72 bytes")
	}
	return nil
}

func bearerToken(header string) (string, bool) {
	token, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
