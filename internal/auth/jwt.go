package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// jwtClaims carries the subject as an object, {"sub":{"id":..,"email":..}},
// so it implements jwt.Claims directly instead of using RegisteredClaims.
type jwtClaims struct {
	Sub       Subject          `json:"sub"`
	IssuedAt  *jwt.NumericDate `json:"iat,omitempty"`
	ExpiresAt *jwt.NumericDate `json:"exp,omitempty"`
}

func (c jwtClaims) GetExpirationTime() (*jwt.NumericDate, error) { return c.ExpiresAt, nil }
func (c jwtClaims) GetIssuedAt() (*jwt.NumericDate, error)       { return c.IssuedAt, nil }
func (c jwtClaims) GetNotBefore() (*jwt.NumericDate, error)      { return nil, nil }
func (c jwtClaims) GetIssuer() (string, error)                   { return "", nil }
func (c jwtClaims) GetSubject() (string, error)                  { return c.Sub.ID, nil }
func (c jwtClaims) GetAudience() (jwt.ClaimStrings, error)       { return nil, nil }

// JWTService issues and verifies HS256 JWTs
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTService(secret []byte, ttl time.Duration, opts ...TokenOption) (*JWTService, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}
	o := applyTokenOptions(opts)
	return &JWTService{secret: secret, ttl: ttl, now: o.now}, nil
}

// CreateToken signs a token for the user that expires after the service TTL.
func (s *JWTService) CreateToken(userID uuid.UUID, email string) (string, error) {
	now := s.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		Sub:       Subject{ID: userID.String(), Email: email},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})

	return token.SignedString(s.secret)
}

// VerifyToken checks signature, algorithm and expiry.
func (s *JWTService) VerifyToken(tokenStr string) (*TokenClaims, error) {
	claims := &jwtClaims{}

	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	out := &TokenClaims{Subject: claims.Sub}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
