package user

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memStore is an in-memory Store used by the service and handler tests.
type memStore struct {
	mu      sync.Mutex
	users   map[uuid.UUID]*User
	err     error
	creates int
}

func newMemStore(users ...*User) *memStore {
	s := &memStore{users: make(map[uuid.UUID]*User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *memStore) Create(_ context.Context, p CreateParams) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	if s.err != nil {
		return nil, s.err
	}
	for _, u := range s.users {
		if u.Email == p.Email {
			return nil, ErrDuplicateEmail
		}
	}
	now := time.Now().UTC()
	u := &User{
		ID:           uuid.New(),
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		BirthDate:    Date{p.BirthDate},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *memStore) GetByEmail(_ context.Context, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memStore) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *memStore) Update(_ context.Context, id uuid.UUID, p UpdateParams) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if p.Email != nil {
		for _, other := range s.users {
			if other.ID != id && other.Email == *p.Email {
				return nil, ErrDuplicateEmail
			}
		}
	}

	updated := *u
	if p.Email != nil {
		updated.Email = *p.Email
	}
	if p.PasswordHash != nil {
		updated.PasswordHash = *p.PasswordHash
	}
	if p.FirstName != nil {
		updated.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		updated.LastName = *p.LastName
	}
	if p.BirthDate != nil {
		updated.BirthDate = Date{*p.BirthDate}
	}
	updated.UpdatedAt = time.Now().UTC()
	s.users[id] = &updated
	return &updated, nil
}

func (s *memStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *memStore) List(_ context.Context, p ListParams) ([]*User, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, 0, s.err
	}

	needle := strings.ToLower(p.Search)
	var matched []*User
	for _, u := range s.users {
		if needle == "" ||
			strings.Contains(strings.ToLower(u.FirstName), needle) ||
			strings.Contains(strings.ToLower(u.LastName), needle) ||
			strings.Contains(strings.ToLower(u.Email), needle) {
			matched = append(matched, u)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		less := matched[i].Email < matched[j].Email
		if p.SortOrder == SortDesc {
			return !less
		}
		return less
	})

	total := len(matched)
	start := min(p.Offset(), total)
	end := min(start+p.Limit, total)
	return matched[start:end], total, nil
}

func (s *memStore) createCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creates
}

// prefixHasher marks hashes so tests can tell them from plaintext.
type prefixHasher struct{}

func (prefixHasher) Hash(plaintext string) (string, error) {
	return "hashed:" + plaintext, nil
}
