package summaries

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"summarizer-backend/internal/documents"
	"summarizer-backend/internal/shared/metrics"
	"summarizer-backend/internal/shared/storage/object"
	"summarizer-backend/internal/shared/telemetry"
	"summarizer-backend/internal/summarize"
)

// DocumentGetter resolves a document owned by a user.
type DocumentGetter interface {
	Get(ctx context.Context, userID, id string) (documents.Document, error)
}

// Service implements summary generation and history.
type Service struct {
	repo   Repo
	docs   DocumentGetter
	store  object.ObjectStore
	engine summarize.Engine
}

// NewService creates a summary service.
func NewService(repo Repo, docs DocumentGetter, store object.ObjectStore, engine summarize.Engine) *Service {
	return &Service{repo: repo, docs: docs, store: store, engine: engine}
}

// Generate produces and persists a new summary for an owned document.
// The extracted text is read back from storage, never re-extracted.
func (s *Service) Generate(ctx context.Context, userID string, req GenerateRequest) (Summary, error) {
	if req.DocumentID == "" {
		return Summary{}, fmt.Errorf("%w: document_id is required", ErrInvalidInput)
	}

	minLen, maxLen := req.MinLength, req.MaxLength
	if minLen == 0 {
		minLen = DefaultMinLength
	}
	if maxLen == 0 {
		maxLen = DefaultMaxLength
	}
	if minLen < 1 || maxLen < minLen {
		return Summary{}, fmt.Errorf("%w: min=%d max=%d", ErrInvalidRange, minLen, maxLen)
	}

	doc, err := s.docs.Get(ctx, userID, req.DocumentID)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			return Summary{}, ErrDocumentNotFound
		}
		return Summary{}, fmt.Errorf("load document: %w", err)
	}
	if doc.ExtractedTextKey == "" {
		return Summary{}, ErrNoTextAvailable
	}

	text, err := s.loadText(ctx, doc.ExtractedTextKey)
	if err != nil {
		return Summary{}, err
	}

	metrics.IncSummaryStarted()
	result, err := s.engine.Summarize(ctx, text, summarize.Options{MinLength: minLen, MaxLength: maxLen})
	if err != nil {
		metrics.IncSummaryFailed()
		return Summary{}, err
	}
	metrics.IncSummaryCompleted()
	metrics.ObserveSummaryDurationMs(float64(result.GenerationTimeMs))

	ratio := 0.0
	if sourceWords := summarize.WordCount(text); sourceWords > 0 {
		ratio = float64(result.WordCount) / float64(sourceWords)
	}

	summary := Summary{
		ID:               uuid.NewString(),
		DocumentID:       doc.ID,
		UserID:           userID,
		SummaryText:      result.SummaryText,
		WordCount:        result.WordCount,
		CompressionRatio: ratio,
		ModelName:        result.ModelName,
		MinLength:        minLen,
		MaxLength:        maxLen,
		GenerationTimeMs: result.GenerationTimeMs,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, summary); err != nil {
		return Summary{}, fmt.Errorf("create summary: %w", err)
	}

	telemetry.Info("summary generated", map[string]any{
		"summaryId":  summary.ID,
		"documentId": doc.ID,
		"userId":     userID,
		"model":      summary.ModelName,
		"durationMs": summary.GenerationTimeMs,
	})
	return summary, nil
}

// Get fetches a single summary owned by the user.
func (s *Service) Get(ctx context.Context, userID, id string) (Summary, error) {
	if userID == "" || id == "" {
		return Summary{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, userID, id)
}

// List returns a page of the user's summaries, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Summary, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, userID, limit, offset)
}

// ListByDocument returns all summaries of one owned document. The document
// must exist and belong to the caller.
func (s *Service) ListByDocument(ctx context.Context, userID, documentID string) ([]Summary, error) {
	if _, err := s.docs.Get(ctx, userID, documentID); err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("load document: %w", err)
	}
	return s.repo.ListByDocument(ctx, userID, documentID)
}

// Delete removes a single summary.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

// DeleteByDocument removes all summaries of a document. Used as the delete
// cascade when the records live in memory.
func (s *Service) DeleteByDocument(ctx context.Context, userID, documentID string) error {
	return s.repo.DeleteByDocument(ctx, userID, documentID)
}

func (s *Service) loadText(ctx context.Context, key string) (string, error) {
	rc, err := s.store.Open(ctx, key)
	if err != nil {
		return "", fmt.Errorf("open extracted text key=%s: %w", key, err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read extracted text key=%s: %w", key, err)
	}
	return string(raw), nil
}
