package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingTokenSecret is returned when AUTH_TOKEN_SECRET is not set.
// There is no fallback secret.
var ErrMissingTokenSecret = errors.New("AUTH_TOKEN_SECRET is required")

const (
	TokenStrategyJWT    = "jwt"
	TokenStrategyPaseto = "paseto"

	PasswordAlgorithmBcrypt   = "bcrypt"
	PasswordAlgorithmArgon2id = "argon2id"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Host            string
	Port            string
	Env             string // dev or prod
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	TrustedOrigins  []string // CORS allowed origins
	MetricsEnabled  bool     // serve /metrics
}

type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	ChannelBinding string // "require" for Neon DB, empty for local
	AutoMigrate    bool
	MaxOpenConns   int
	MaxIdleConns   int
}

type AuthConfig struct {
	TokenSecret       []byte
	TokenStrategy     string // jwt or paseto
	TokenTTL          time.Duration
	PasswordAlgorithm string // bcrypt or argon2id
	BcryptCost        int
	Argon2Time        int
}

// Load reads configuration from environment variables and validates the
// settings the API server cannot start without.
func Load() (*Config, error) {
	cfg := Read()

	if err := cfg.Auth.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Read loads the environment without validating it. Admin commands that never
// issue tokens use it so they do not need AUTH_TOKEN_SECRET.
// A .env file in the working directory is loaded first when present.
func Read() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Host:            getEnv("API_HOST", "0.0.0.0"),
			Port:            getEnv("SERVER_PORT", "3000"),
			Env:             getEnv("APP_ENV", "dev"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
			TrustedOrigins:  getSliceEnv("TRUSTED_ORIGINS", []string{"http://localhost:5173"}),
			MetricsEnabled:  getBoolEnv("METRICS_ENABLED", true),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			DBName:         getEnv("DB_NAME", "usermgmt"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			ChannelBinding: getEnv("DB_CHANNEL_BINDING", ""),
			AutoMigrate:    getBoolEnv("DB_AUTO_MIGRATE", false),
			MaxOpenConns:   getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:   getIntEnv("DB_MAX_IDLE_CONNS", 5),
		},
		Auth: AuthConfig{
			TokenSecret:       []byte(os.Getenv("AUTH_TOKEN_SECRET")),
			TokenStrategy:     strings.ToLower(getEnv("TOKEN_STRATEGY", TokenStrategyJWT)),
			TokenTTL:          getDurationEnv("TOKEN_TTL", time.Hour),
			PasswordAlgorithm: strings.ToLower(getEnv("PASSWORD_ALGORITHM", PasswordAlgorithmBcrypt)),
			BcryptCost:        getIntEnv("BCRYPT_COST", 10),
			Argon2Time:        getIntEnv("ARGON2_TIME", 3),
		},
	}
}

// Validate checks the auth settings that the token and password services
// cannot start without.
func (c *AuthConfig) Validate() error {
	if len(c.TokenSecret) == 0 {
		return ErrMissingTokenSecret
	}

	switch c.TokenStrategy {
	case TokenStrategyJWT, TokenStrategyPaseto:
	default:
		return fmt.Errorf("TOKEN_STRATEGY must be %q or %q, got %q", TokenStrategyJWT, TokenStrategyPaseto, c.TokenStrategy)
	}

	switch c.PasswordAlgorithm {
	case PasswordAlgorithmBcrypt, PasswordAlgorithmArgon2id:
	default:
		return fmt.Errorf("PASSWORD_ALGORITHM must be %q or %q, got %q", PasswordAlgorithmBcrypt, PasswordAlgorithmArgon2id, c.PasswordAlgorithm)
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}

	// bcrypt accepts 4..31
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}

	if c.Argon2Time < 1 {
		return fmt.Errorf("ARGON2_TIME must be at least 1, got %d", c.Argon2Time)
	}

	return nil
}

func (c *DatabaseConfig) ConnectionString() string {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)

	// Add channel_binding if configured (required for Neon DB)
	if c.ChannelBinding != "" {
		connStr += fmt.Sprintf(" channel_binding=%s", c.ChannelBinding)
	}

	return connStr
}

// Address returns the listen address (host:port)
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDevelopment returns true if the environment is set to dev
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "dev"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

// getDurationEnv reads a number of seconds.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	seconds, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return time.Duration(seconds) * time.Second
}

func getSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Split by comma and trim whitespace
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}

	return result
}
