package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
)

// Ensure UserStore implements the interface.
var _ driven.UserStore = (*UserStore)(nil)

// UserStore is an in-memory implementation of driven.UserStore.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// NewUserStore creates a new in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{
		users: make(map[string]domain.User),
	}
}

// Save creates or replaces a user.
func (s *UserStore) Save(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.users {
		if id != user.ID && strings.EqualFold(s.users[id].Email, user.Email) {
			return domain.ErrAlreadyExists
		}
	}
	s.users[user.ID] = *user
	return nil
}

// Get retrieves a user by ID.
func (s *UserStore) Get(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

// GetByEmail retrieves a user by email, ignoring case.
func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id := range s.users {
		if strings.EqualFold(s.users[id].Email, email) {
			user := s.users[id]
			return &user, nil
		}
	}
	return nil, domain.ErrNotFound
}

// TouchLogin sets the user's last login time.
func (s *UserStore) TouchLogin(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	user.LastLogin = &at
	s.users[id] = user
	return nil
}

// IncrementStats adds the deltas to the user's counters under the write lock.
func (s *UserStore) IncrementStats(_ context.Context, id string, docDelta, charDelta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	user.DocumentCount += docDelta
	user.TotalCharacters += charDelta
	s.users[id] = user
	return nil
}
