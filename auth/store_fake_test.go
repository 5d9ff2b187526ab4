package auth

import (
	"context"
	"sync"
	"time"

	"github.com/user/aidoctor-go/apperror"
)

// fakeUserStore is an in-memory UserStore for tests. The mutex mirrors the
// database's atomic arbitration of the uniqueness constraint: a concurrent
// duplicate registration yields exactly one success.
type fakeUserStore struct {
	mu     sync.Mutex
	nextID int
	users  map[string]*User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*User)}
}

func (s *fakeUserStore) CreateUser(_ context.Context, username, passwordHash string) (*User, error) {
	if username == "" {
		return nil, apperror.NewValidationError("username must not be empty", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[username]; exists {
		return nil, apperror.NewConflictError("username already exists", nil)
	}

	s.nextID++
	user := &User{
		ID:             s.nextID,
		Username:       username,
		HashedPassword: passwordHash,
		CreatedAt:      time.Now(),
	}
	s.users[username] = user
	return user, nil
}

func (s *fakeUserStore) FindByUsername(_ context.Context, username string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}
