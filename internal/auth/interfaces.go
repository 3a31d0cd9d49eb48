package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/user-management-api/internal/config"
	"github.com/redmonkez12/user-management-api/internal/user"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrMissingSecret = errors.New("token signing secret is required")
)

// TokenService defines the interface for token creation and validation.
// Implementations include JWTService (HS256) and PasetoService (PASETO v4.local).
type TokenService interface {
	CreateToken(userID uuid.UUID, email string) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}

// Subject identifies the user a token was issued to.
type Subject struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// TokenClaims are the verified contents of a token.
type TokenClaims struct {
	Subject   Subject
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// PasswordVerifier checks a plaintext password against a stored hash.
type PasswordVerifier interface {
	Verify(plaintext, encoded string) (bool, error)
}

// UserFinder is the slice of the user store that authentication reads.
// Both lookups return user.ErrNotFound for a missing user.
type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// TokenOption configures a token service.
type TokenOption func(*tokenOptions)

type tokenOptions struct {
	now func() time.Time
}

// WithClock replaces time.Now for issuing and checking expiry.
func WithClock(now func() time.Time) TokenOption {
	return func(o *tokenOptions) { o.now = now }
}

func applyTokenOptions(opts []TokenOption) tokenOptions {
	o := tokenOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewTokenService builds the TokenService selected by cfg.TokenStrategy.
func NewTokenService(cfg config.AuthConfig, opts ...TokenOption) (TokenService, error) {
	var (
		svc TokenService
		err error
	)
	switch cfg.TokenStrategy {
	case config.TokenStrategyJWT:
		svc, err = NewJWTService(cfg.TokenSecret, cfg.TokenTTL, opts...)
	case config.TokenStrategyPaseto:
		svc, err = NewPasetoService(cfg.TokenSecret, cfg.TokenTTL, opts...)
	default:
		return nil, fmt.Errorf("unsupported token strategy %q", cfg.TokenStrategy)
	}
	if err != nil {
		return nil, err
	}
	return svc, nil
}
