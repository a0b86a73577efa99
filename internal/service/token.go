package service

import (
	"errors"
	"time"

	"github.com/AncientiCe/user-mgmt-api/internal/config"
	"github.com/AncientiCe/user-mgmt-api/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

const libraryExpiryLeeway = 2 * time.Second

// SessionClaims is the payload of a bearer token: sub, email, iat, exp.
type SessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies HS256 bearer tokens. It holds no state
// besides the immutable secret and lifetime, so it is safe for concurrent use.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenCodec(cfg config.AuthConfig, now func() time.Time) *TokenCodec {
	if now == nil {
		now = time.Now
	}
	return &TokenCodec{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.Expiry(),
		now:    now,
	}
}

func (c *TokenCodec) Issue(user *model.User) (string, time.Time, error) {
	now := c.now().Truncate(time.Second)
	expiresAt := now.Add(c.ttl)

	claims := SessionClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, internal(err)
	}
	return signed, expiresAt, nil
}

func (c *TokenCodec) Verify(tokenStr string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
		// looser than checkExpiry, which owns the boundary
		jwt.WithLeeway(libraryExpiryLeeway),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	// expired once exp lies strictly before the current second
	if err := checkExpiry(claims, c.now()); err != nil {
		return nil, err
	}
	return claims, nil
}

func checkExpiry(claims *SessionClaims, now time.Time) error {
	if claims.ExpiresAt == nil {
		return ErrInvalidToken
	}
	if claims.ExpiresAt.Unix() < now.Unix() {
		return ErrTokenExpired
	}
	return nil
}
