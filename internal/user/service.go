package user

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/redmonkez12/user-management-api/internal/apperror"
	"github.com/redmonkez12/user-management-api/internal/logging"
)

// Store is the persistence contract the service depends on. Lookups return
// ErrNotFound for a missing row and a wrapped error for anything else.
type Store interface {
	Create(ctx context.Context, p CreateParams) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	Update(ctx context.Context, id uuid.UUID, p UpdateParams) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, p ListParams) ([]*User, int, error)
}

// PasswordHasher produces the stored form of a password.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}

type CreateInput struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	BirthDate *Date  `json:"birthDate"`
}

// UpdateInput leaves nil fields unchanged.
type UpdateInput struct {
	FirstName *string `json:"firstname"`
	LastName  *string `json:"lastname"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	BirthDate *Date   `json:"birthDate"`
}

type Page struct {
	Data       []*User `json:"data"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	Total      int     `json:"total"`
	TotalPages int     `json:"totalPages"`
}

// Service implements user CRUD on top of a Store.
type Service struct {
	store  Store
	hasher PasswordHasher
	logger *logging.Logger
}

func NewService(store Store, hasher PasswordHasher, logger *logging.Logger) *Service {
	return &Service{store: store, hasher: hasher, logger: logger}
}

// Create validates in, hashes the password and stores a new user.
func (s *Service) Create(ctx context.Context, in CreateInput) (*User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	_, err := s.store.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, apperror.ErrUserExists
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	passwordHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.store.Create(ctx, CreateParams{
		Email:        in.Email,
		PasswordHash: passwordHash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		BirthDate:    in.BirthDate.Time,
	})
	if err != nil {
		// lost a race with a concurrent insert
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, apperror.ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

// Get returns a user by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperror.ErrUserDoesNotExist
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// Update changes the supplied fields of an existing user. The password is
// re-hashed only when a new one is given.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	params := UpdateParams{
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}
	if in.BirthDate != nil {
		params.BirthDate = &in.BirthDate.Time
	}
	if in.Password != nil {
		passwordHash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		params.PasswordHash = &passwordHash
	}

	updated, err := s.store.Update(ctx, id, params)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperror.ErrUserDoesNotExist
		}
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, apperror.ErrUserExists
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return updated, nil
}

// Delete removes a user by id.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperror.ErrUserDoesNotExist
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// List returns one page of users.
func (s *Service) List(ctx context.Context, p ListParams) (*Page, error) {
	users, total, err := s.store.List(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []*User{}
	}

	return &Page{
		Data:       users,
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(p.Limit))),
	}, nil
}

// Seed creates in unless a user with the same email already exists. Existing
// users are left untouched. It reports whether a user was created.
func (s *Service) Seed(ctx context.Context, in CreateInput) (bool, error) {
	_, err := s.Create(ctx, in)
	if err != nil {
		if errors.Is(err, apperror.ErrUserExists) {
			s.logger.Info("seed user already present", "email", in.Email)
			return false, nil
		}
		return false, err
	}

	s.logger.Info("seed user created", "email", in.Email)
	return true, nil
}
