package documents

import (
	"context"
	"time"
)

// Repo defines persistence for document records. All lookups are scoped by
// the owning user; there is no cross-user access path.
type Repo interface {
	Create(ctx context.Context, d Document) error
	GetByID(ctx context.Context, userID, id string) (Document, error)
	List(ctx context.Context, userID string, limit, offset int) ([]Document, error)
	Delete(ctx context.Context, userID, id string) error
	Stats(ctx context.Context, userID string) (Stats, error)

	// RecordExtraction stores the derived text key once. A second call for the
	// same document is a no-op because the key is write-once.
	RecordExtraction(ctx context.Context, id, extractedTextKey string, wordCount int, extractedAt time.Time) error
	MarkExtractionFailed(ctx context.Context, id string) error
}
