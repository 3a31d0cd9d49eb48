package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/redmonkez12/user-management-api/internal/apperror"
	"github.com/redmonkez12/user-management-api/internal/logging"
	"github.com/redmonkez12/user-management-api/internal/user"
)

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token string       `json:"token"`
	User  user.Summary `json:"user"`
}

// Service handles authentication business logic
type Service struct {
	users        UserFinder
	passwords    PasswordVerifier
	tokenService TokenService
	logger       *logging.Logger
}

func NewService(users UserFinder, passwords PasswordVerifier, tokenService TokenService, logger *logging.Logger) *Service {
	return &Service{
		users:        users,
		passwords:    passwords,
		tokenService: tokenService,
		logger:       logger,
	}
}

// Login checks the credentials and issues a token for the user.
// An unknown email yields ErrUserDoesNotExist and a wrong password
// ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if err := user.ValidateCredentials(email, password); err != nil {
		return nil, err
	}

	existingUser, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperror.ErrUserDoesNotExist
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := s.passwords.Verify(password, existingUser.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, apperror.ErrInvalidCredentials
	}

	token, err := s.tokenService.CreateToken(existingUser.ID, existingUser.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}
	s.logger.Debug("token issued", "user_id", existingUser.ID)

	return &LoginResult{
		Token: token,
		User:  existingUser.Summary(),
	}, nil
}
