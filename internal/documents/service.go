package documents

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"summarizer-backend/internal/extract"
	"summarizer-backend/internal/shared/metrics"
	"summarizer-backend/internal/shared/storage/object"
	"summarizer-backend/internal/shared/telemetry"
)

// SummaryCascade removes the summaries belonging to a deleted document.
// The Postgres repo relies on the foreign key cascade instead, so the
// cascade is nil there and only wired for the in-memory setup.
type SummaryCascade interface {
	DeleteByDocument(ctx context.Context, userID, documentID string) error
}

// Service implements upload, listing and deletion of documents.
type Service struct {
	repo           Repo
	store          object.ObjectStore
	cascade        SummaryCascade
	maxUploadBytes int64
}

// NewService creates a document service. cascade may be nil.
func NewService(repo Repo, store object.ObjectStore, cascade SummaryCascade, maxUploadBytes int64) *Service {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &Service{repo: repo, store: store, cascade: cascade, maxUploadBytes: maxUploadBytes}
}

// Upload validates, stores and extracts an uploaded file. Validation happens
// before any byte is written. Extraction failure does not fail the upload;
// the record is kept with status extraction_failed so nothing silently
// disappears.
func (s *Service) Upload(ctx context.Context, userID, fileName, declaredType string, declaredSize int64, r io.Reader) (Document, error) {
	if strings.TrimSpace(fileName) == "" {
		return Document{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}

	fileType, err := extract.ResolveType(declaredType, fileName)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %s", ErrUnsupportedType, declaredType)
	}

	if declaredSize > s.maxUploadBytes {
		return Document{}, fmt.Errorf("%w: %d bytes (limit %d)", ErrPayloadTooLarge, declaredSize, s.maxUploadBytes)
	}

	// Belt and braces: the declared size comes from the client, so cap the
	// stream too. One extra byte past the limit aborts the save.
	limited := io.LimitReader(r, s.maxUploadBytes+1)

	storageKey, sizeBytes, mimeType, err := s.store.Save(ctx, userID, fileName, limited)
	if err != nil {
		return Document{}, fmt.Errorf("store upload: %w", err)
	}
	if sizeBytes > s.maxUploadBytes {
		if delErr := s.store.Delete(ctx, storageKey); delErr != nil {
			telemetry.Error("cleanup oversized upload failed", map[string]any{"storageKey": storageKey, "err": delErr.Error()})
		}
		return Document{}, fmt.Errorf("%w: limit %d", ErrPayloadTooLarge, s.maxUploadBytes)
	}

	doc := Document{
		ID:               uuid.NewString(),
		UserID:           userID,
		FileName:         keyBaseName(storageKey),
		OriginalFilename: fileName,
		FileType:         string(fileType),
		MimeType:         mimeType,
		SizeBytes:        sizeBytes,
		StorageKey:       storageKey,
		Status:           StatusUploaded,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		if delErr := s.store.Delete(ctx, storageKey); delErr != nil {
			telemetry.Error("cleanup orphaned upload failed", map[string]any{"storageKey": storageKey, "err": delErr.Error()})
		}
		return Document{}, fmt.Errorf("create document: %w", err)
	}

	text, err := extract.ExtractText(ctx, s.store, storageKey, fileType)
	if err != nil {
		metrics.IncExtractionFailed()
		telemetry.Error("extraction failed", map[string]any{
			"documentId": doc.ID,
			"fileType":   doc.FileType,
			"err":        err.Error(),
		})
		if markErr := s.repo.MarkExtractionFailed(ctx, doc.ID); markErr != nil {
			telemetry.Error("mark extraction failed", map[string]any{"documentId": doc.ID, "err": markErr.Error()})
		}
		doc.Status = StatusExtractionFailed
		return doc, nil
	}

	extractedAt := time.Now().UTC()
	wordCount := len(strings.Fields(text))
	extractedKey := extract.DerivedTextKey(storageKey)
	if err := s.repo.RecordExtraction(ctx, doc.ID, extractedKey, wordCount, extractedAt); err != nil {
		return Document{}, fmt.Errorf("record extraction: %w", err)
	}

	doc.ExtractedTextKey = extractedKey
	doc.WordCount = wordCount
	doc.Status = StatusExtracted
	doc.ExtractedAt = &extractedAt

	telemetry.Info("document uploaded", map[string]any{
		"documentId": doc.ID,
		"userId":     userID,
		"fileType":   doc.FileType,
		"sizeBytes":  sizeBytes,
		"wordCount":  wordCount,
	})
	return doc, nil
}

// Get fetches a single document owned by the user.
func (s *Service) Get(ctx context.Context, userID, id string) (Document, error) {
	if userID == "" || id == "" {
		return Document{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, userID, id)
}

// List returns a page of the user's documents, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, userID, limit, offset)
}

// Stats aggregates the user's document collection.
func (s *Service) Stats(ctx context.Context, userID string) (Stats, error) {
	return s.repo.Stats(ctx, userID)
}

// Delete removes a document, its stored objects and its summaries.
// Object deletion is best effort: a dangling blob is preferable to a
// record the user cannot get rid of.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	doc, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}

	if s.cascade != nil {
		if err := s.cascade.DeleteByDocument(ctx, userID, id); err != nil {
			telemetry.Error("cascade summaries delete failed", map[string]any{"documentId": id, "err": err.Error()})
		}
	}

	for _, key := range []string{doc.StorageKey, doc.ExtractedTextKey} {
		if key == "" {
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			telemetry.Error("object delete failed", map[string]any{"storageKey": key, "err": err.Error()})
		}
	}

	telemetry.Info("document deleted", map[string]any{"documentId": id, "userId": userID})
	return nil
}

func keyBaseName(storageKey string) string {
	if idx := strings.LastIndex(storageKey, "/"); idx >= 0 {
		return storageKey[idx+1:]
	}
	return storageKey
}
