package documents

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory document repository used when no database is configured.
type MemoryRepo struct {
	mu   sync.RWMutex
	docs map[string]Document
}

// NewMemoryRepo creates an empty in-memory document repository.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{docs: make(map[string]Document)}
}

func (r *MemoryRepo) Create(_ context.Context, d Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[d.ID] = d
	return nil
}

func (r *MemoryRepo) GetByID(_ context.Context, userID, id string) (Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.docs[id]
	if !ok || d.UserID != userID {
		return Document{}, ErrNotFound
	}
	return d, nil
}

func (r *MemoryRepo) List(_ context.Context, userID string, limit, offset int) ([]Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := []Document{}
	for _, d := range r.docs {
		if d.UserID == userID {
			all = append(all, d)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return []Document{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *MemoryRepo) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.docs[id]
	if !ok || d.UserID != userID {
		return ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

func (r *MemoryRepo) Stats(_ context.Context, userID string) (Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := Stats{ByFileType: map[string]int{}}
	for _, d := range r.docs {
		if d.UserID != userID {
			continue
		}
		stats.TotalDocuments++
		stats.TotalSizeBytes += d.SizeBytes
		stats.TotalWords += d.WordCount
		stats.ByFileType[d.FileType]++
	}
	return stats, nil
}

func (r *MemoryRepo) RecordExtraction(_ context.Context, id, extractedTextKey string, wordCount int, extractedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.docs[id]
	if !ok || d.ExtractedTextKey != "" {
		return nil
	}
	d.ExtractedTextKey = extractedTextKey
	d.WordCount = wordCount
	d.Status = StatusExtracted
	t := extractedAt
	d.ExtractedAt = &t
	r.docs[id] = d
	return nil
}

func (r *MemoryRepo) MarkExtractionFailed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.docs[id]
	if !ok || d.ExtractedTextKey != "" {
		return nil
	}
	d.Status = StatusExtractionFailed
	r.docs[id] = d
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
