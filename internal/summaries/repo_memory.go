package summaries

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory summary repository used when no database is configured.
type MemoryRepo struct {
	mu    sync.RWMutex
	items map[string]Summary
}

// NewMemoryRepo creates an empty in-memory summary repository.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: make(map[string]Summary)}
}

func (r *MemoryRepo) Create(_ context.Context, s Summary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[s.ID] = s
	return nil
}

func (r *MemoryRepo) GetByID(_ context.Context, userID, id string) (Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[id]
	if !ok || s.UserID != userID {
		return Summary{}, ErrNotFound
	}
	return s, nil
}

func (r *MemoryRepo) List(_ context.Context, userID string, limit, offset int) ([]Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.collect(func(s Summary) bool { return s.UserID == userID })
	if offset >= len(all) {
		return []Summary{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *MemoryRepo) ListByDocument(_ context.Context, userID, documentID string) ([]Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(s Summary) bool {
		return s.UserID == userID && s.DocumentID == documentID
	}), nil
}

func (r *MemoryRepo) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.items[id]
	if !ok || s.UserID != userID {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *MemoryRepo) DeleteByDocument(_ context.Context, userID, documentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.items {
		if s.UserID == userID && s.DocumentID == documentID {
			delete(r.items, id)
		}
	}
	return nil
}

func (r *MemoryRepo) collect(match func(Summary) bool) []Summary {
	out := []Summary{}
	for _, s := range r.items {
		if match(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

var _ Repo = (*MemoryRepo)(nil)
