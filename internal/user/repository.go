package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/user-management-api/internal/database"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// pqUniqueViolation is the SQLSTATE for unique_violation.
const pqUniqueViolation = "23505"

type CreateParams struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	BirthDate    time.Time
}

// UpdateParams changes only the non-nil fields.
type UpdateParams struct {
	Email        *string
	PasswordHash *string
	FirstName    *string
	LastName     *string
	BirthDate    *time.Time
}

type ListParams struct {
	Page      int
	Limit     int
	SortBy    SortField
	SortOrder SortOrder
	Search    string
}

func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Repository handles user data persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user into the database
func (r *Repository) Create(ctx context.Context, p CreateParams) (*User, error) {
	dbUser := &database.User{
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		BirthDate:    p.BirthDate,
	}

	_, err := r.db.NewInsert().
		Model(dbUser).
		Returning("*").
		Exec(ctx)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// GetByEmail retrieves a user by email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("email = ?", email).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// GetByID retrieves a user by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// Update applies p to the user and returns the stored row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (*User, error) {
	dbUser := new(database.User)
	q := r.db.NewUpdate().
		Model(dbUser).
		Set("updated_at = current_timestamp").
		Where("id = ?", id)

	if p.Email != nil {
		q = q.Set("email = ?", *p.Email)
	}
	if p.PasswordHash != nil {
		q = q.Set("password_hash = ?", *p.PasswordHash)
	}
	if p.FirstName != nil {
		q = q.Set("firstname = ?", *p.FirstName)
	}
	if p.LastName != nil {
		q = q.Set("lastname = ?", *p.LastName)
	}
	if p.BirthDate != nil {
		q = q.Set("birth_date = ?", *p.BirthDate)
	}

	err := q.Returning("*").Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// Delete removes a user by ID
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.NewDelete().
		Model((*database.User)(nil)).
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// List returns one page of users and the total number of matches.
func (r *Repository) List(ctx context.Context, p ListParams) ([]*User, int, error) {
	var dbUsers []database.User
	q := r.db.NewSelect().Model(&dbUsers)

	if p.Search != "" {
		pattern := "%" + escapeLike(p.Search) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("firstname ILIKE ?", pattern).
				WhereOr("lastname ILIKE ?", pattern).
				WhereOr("email ILIKE ?", pattern)
		})
	}

	q = q.OrderExpr("? "+p.SortOrder.SQL(), bun.Ident(p.SortBy.Column()))
	if p.SortBy != SortByID {
		// stable paging across equal sort keys
		q = q.OrderExpr("id ASC")
	}

	total, err := q.Limit(p.Limit).Offset(p.Offset()).ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*User, 0, len(dbUsers))
	for i := range dbUsers {
		users = append(users, mapDBUserToModel(&dbUsers[i]))
	}

	return users, total, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// mapDBUserToModel converts database model to domain model
func mapDBUserToModel(dbu *database.User) *User {
	return &User{
		ID:           dbu.ID,
		Email:        dbu.Email,
		PasswordHash: dbu.PasswordHash,
		FirstName:    dbu.FirstName,
		LastName:     dbu.LastName,
		BirthDate:    Date{dbu.BirthDate},
		CreatedAt:    dbu.CreatedAt,
		UpdatedAt:    dbu.UpdatedAt,
	}
}
