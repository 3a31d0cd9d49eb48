package auth

import (
	"crypto/sha256"
	"fmt"
	"io"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

const pasetoKeyInfo = "user-management-api paseto v4.local"

// PasetoService handles PASETO token creation and validation
// Uses v4.local (symmetric encryption with XChaCha20-Poly1305)
type PasetoService struct {
	symmetricKey paseto.V4SymmetricKey
	ttl          time.Duration
	now          func() time.Time
}

// NewPasetoService derives the 32-byte v4.local key from secret with
// HKDF-SHA256, so the same AUTH_TOKEN_SECRET serves either strategy.
func NewPasetoService(secret []byte, ttl time.Duration, opts ...TokenOption) (*PasetoService, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}

	keyBytes := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(pasetoKeyInfo)), keyBytes); err != nil {
		return nil, fmt.Errorf("failed to derive symmetric key: %w", err)
	}

	key, err := paseto.V4SymmetricKeyFromBytes(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create symmetric key: %w", err)
	}

	o := applyTokenOptions(opts)
	return &PasetoService{symmetricKey: key, ttl: ttl, now: o.now}, nil
}

// CreateToken generates a new PASETO v4.local token for the user
func (s *PasetoService) CreateToken(userID uuid.UUID, email string) (string, error) {
	now := s.now()

	token := paseto.NewToken()
	token.SetIssuedAt(now)
	token.SetExpiration(now.Add(s.ttl))
	if err := token.Set("sub", Subject{ID: userID.String(), Email: email}); err != nil {
		return "", fmt.Errorf("failed to set subject claim: %w", err)
	}

	return token.V4Encrypt(s.symmetricKey, nil), nil
}

// VerifyToken validates a PASETO v4.local token and returns the claims.
// Expiry is checked against the service clock rather than the parser's.
func (s *PasetoService) VerifyToken(tokenStr string) (*TokenClaims, error) {
	parser := paseto.NewParserWithoutExpiryCheck()

	token, err := parser.ParseV4Local(s.symmetricKey, tokenStr, nil)
	if err != nil {
		return nil, ErrInvalidToken
	}

	expiresAt, err := token.GetExpiration()
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !s.now().Before(expiresAt) {
		return nil, ErrExpiredToken
	}

	issuedAt, err := token.GetIssuedAt()
	if err != nil {
		return nil, ErrInvalidToken
	}

	var sub Subject
	if err := token.Get("sub", &sub); err != nil {
		return nil, ErrInvalidToken
	}

	return &TokenClaims{
		Subject:   sub,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}
