package auth

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/redmonkez12/user-management-api/internal/user"
)

// fakeUsers is an in-memory UserFinder that counts lookups.
type fakeUsers struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*user.User
	err     error
	lookups int
}

func newFakeUsers(users ...*user.User) *fakeUsers {
	f := &fakeUsers{byID: make(map[uuid.UUID]*user.User)}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) delete(id uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
}

func (f *fakeUsers) lookupCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lookups
}
