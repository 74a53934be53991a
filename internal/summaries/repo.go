package summaries

import "context"

// Repo defines persistence for summaries. All lookups are scoped by the
// owning user.
type Repo interface {
	Create(ctx context.Context, s Summary) error
	GetByID(ctx context.Context, userID, id string) (Summary, error)
	List(ctx context.Context, userID string, limit, offset int) ([]Summary, error)
	ListByDocument(ctx context.Context, userID, documentID string) ([]Summary, error)
	Delete(ctx context.Context, userID, id string) error
	DeleteByDocument(ctx context.Context, userID, documentID string) error
}
