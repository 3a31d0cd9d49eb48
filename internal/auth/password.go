package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"

	"github.com/redmonkez12/user-management-api/internal/config"
)

// ErrMalformedHash is returned by Verify when the stored hash cannot be parsed.
var ErrMalformedHash = errors.New("malformed password hash")

// Argon2id parameters other than time, which is the configurable cost.
// Memory: 64MB, Threads: 4, KeyLen: 32 bytes
const (
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	argon2KeyLen  = 32
	saltLen       = 16

	argon2Prefix = "$argon2id$"

	// Upper bound on the memory parameter accepted from a stored hash (1 GiB).
	argon2MaxMemory = 1024 * 1024
)

// PasswordHasher hashes new passwords with the configured algorithm and
// verifies any stored hash it recognises, bcrypt or argon2id.
type PasswordHasher struct {
	algorithm string
	cost      int
}

// NewPasswordHasher returns a hasher for algorithm ("bcrypt" or "argon2id").
// cost is the bcrypt cost or the argon2id time parameter.
func NewPasswordHasher(algorithm string, cost int) (*PasswordHasher, error) {
	switch algorithm {
	case config.PasswordAlgorithmBcrypt:
		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			return nil, fmt.Errorf("bcrypt cost must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, cost)
		}
	case config.PasswordAlgorithmArgon2id:
		if cost < 1 {
			return nil, fmt.Errorf("argon2id time must be at least 1, got %d", cost)
		}
	default:
		return nil, fmt.Errorf("unsupported password algorithm %q", algorithm)
	}
	return &PasswordHasher{algorithm: algorithm, cost: cost}, nil
}

// NewPasswordHasherFromConfig passes the cost matching cfg.PasswordAlgorithm.
func NewPasswordHasherFromConfig(cfg config.AuthConfig) (*PasswordHasher, error) {
	cost := cfg.BcryptCost
	if cfg.PasswordAlgorithm == config.PasswordAlgorithmArgon2id {
		cost = cfg.Argon2Time
	}
	return NewPasswordHasher(cfg.PasswordAlgorithm, cost)
}

// Hash returns a salted hash of plaintext. Each call uses a fresh salt.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	if h.algorithm == config.PasswordAlgorithmArgon2id {
		return HashArgon2id(plaintext, uint32(h.cost))
	}
	return HashBcrypt(plaintext, h.cost)
}

// Verify reports whether plaintext matches encoded. A wrong password is
// (false, nil); only an unparseable hash yields an error.
func (h *PasswordHasher) Verify(plaintext, encoded string) (bool, error) {
	return VerifyPassword(plaintext, encoded)
}

func HashBcrypt(plaintext string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

// HashArgon2id encodes as $argon2id$v=19$m=65536,t=3,p=4$salt$hash
func HashArgon2id(plaintext string, time uint32) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(plaintext), salt, time, argon2Memory, argon2Threads, argon2KeyLen)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		time,
		argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifyPassword dispatches on the hash format.
func VerifyPassword(plaintext, encoded string) (bool, error) {
	if strings.HasPrefix(encoded, argon2Prefix) {
		return verifyArgon2id(plaintext, encoded)
	}

	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}

func verifyArgon2id(plaintext, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return false, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, ErrMalformedHash
	}

	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, ErrMalformedHash
	}
	// argon2.IDKey panics on these instead of returning an error.
	if time < 1 || threads < 1 || memory < 8*uint32(threads) || memory > argon2MaxMemory {
		return false, ErrMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, ErrMalformedHash
	}
	decodedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(decodedHash) == 0 {
		return false, ErrMalformedHash
	}

	inputHash := argon2.IDKey([]byte(plaintext), salt, time, memory, threads, uint32(len(decodedHash)))

	return subtle.ConstantTimeCompare(decodedHash, inputHash) == 1, nil
}
