package users

import (
	"context"
	"strings"
	"sync"
)

// MemoryRepo is an in-memory user repository used when no database is configured.
type MemoryRepo struct {
	mu      sync.RWMutex
	byID    map[string]User
	byEmail map[string]string
}

// NewMemoryRepo creates an empty in-memory user repository.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:    make(map[string]User),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryRepo) Create(_ context.Context, u User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, exists := r.byEmail[key]; exists {
		return ErrEmailTaken
	}
	r.byID[u.ID] = u
	r.byEmail[key] = u.ID
	return nil
}

func (r *MemoryRepo) GetByEmail(_ context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return User{}, ErrNotFound
	}
	return r.byID[id], nil
}

func (r *MemoryRepo) GetByID(_ context.Context, id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

var _ Repo = (*MemoryRepo)(nil)
