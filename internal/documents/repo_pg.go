package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PGRepo is the Postgres-backed document repository.
type PGRepo struct {
	db *sql.DB
}

// NewPGRepo creates a Postgres document repository.
func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{db: db}
}

const docColumns = `id, user_id, file_name, original_filename, file_type, mime_type,
	size_bytes, storage_key, extracted_text_key, word_count, status, extracted_at, created_at`

func (r *PGRepo) Create(ctx context.Context, d Document) error {
	const q = `
		INSERT INTO documents (id, user_id, file_name, original_filename, file_type, mime_type,
			size_bytes, storage_key, extracted_text_key, word_count, status, extracted_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.ExecContext(ctx, q,
		d.ID, d.UserID, d.FileName, d.OriginalFilename, d.FileType, d.MimeType,
		d.SizeBytes, d.StorageKey, nullString(d.ExtractedTextKey), nullInt(d.WordCount),
		string(d.Status), d.ExtractedAt, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, userID, id string) (Document, error) {
	q := fmt.Sprintf(`SELECT %s FROM documents WHERE user_id = $1 AND id = $2`, docColumns)
	return scanDoc(r.db.QueryRowContext(ctx, q, userID, id))
}

func (r *PGRepo) List(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	q := fmt.Sprintf(`
		SELECT %s FROM documents
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`, docColumns)

	rows, err := r.db.QueryContext(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		d, err := scanDocRows(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	const q = `DELETE FROM documents WHERE user_id = $1 AND id = $2`

	res, err := r.db.ExecContext(ctx, q, userID, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Stats(ctx context.Context, userID string) (Stats, error) {
	const totals = `
		SELECT COUNT(*), COALESCE(SUM(size_bytes), 0), COALESCE(SUM(word_count), 0)
		FROM documents
		WHERE user_id = $1`

	var stats Stats
	if err := r.db.QueryRowContext(ctx, totals, userID).Scan(
		&stats.TotalDocuments, &stats.TotalSizeBytes, &stats.TotalWords,
	); err != nil {
		return Stats{}, fmt.Errorf("document totals: %w", err)
	}

	const byType = `
		SELECT file_type, COUNT(*)
		FROM documents
		WHERE user_id = $1
		GROUP BY file_type`

	rows, err := r.db.QueryContext(ctx, byType, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("documents by type: %w", err)
	}
	defer rows.Close()

	stats.ByFileType = map[string]int{}
	for rows.Next() {
		var fileType string
		var count int
		if err := rows.Scan(&fileType, &count); err != nil {
			return Stats{}, fmt.Errorf("documents by type: %w", err)
		}
		stats.ByFileType[fileType] = count
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("documents by type: %w", err)
	}
	return stats, nil
}

func (r *PGRepo) RecordExtraction(ctx context.Context, id, extractedTextKey string, wordCount int, extractedAt time.Time) error {
	// The guard keeps the derived text key write-once.
	const q = `
		UPDATE documents
		SET extracted_text_key = $1, word_count = $2, status = $3, extracted_at = $4
		WHERE id = $5 AND extracted_text_key IS NULL`

	if _, err := r.db.ExecContext(ctx, q, extractedTextKey, wordCount, string(StatusExtracted), extractedAt, id); err != nil {
		return fmt.Errorf("record extraction: %w", err)
	}
	return nil
}

func (r *PGRepo) MarkExtractionFailed(ctx context.Context, id string) error {
	const q = `UPDATE documents SET status = $1 WHERE id = $2 AND extracted_text_key IS NULL`

	if _, err := r.db.ExecContext(ctx, q, string(StatusExtractionFailed), id); err != nil {
		return fmt.Errorf("mark extraction failed: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDoc(row *sql.Row) (Document, error) {
	d, err := scanInto(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	return d, err
}

func scanDocRows(rows *sql.Rows) (Document, error) {
	return scanInto(rows)
}

func scanInto(s rowScanner) (Document, error) {
	var d Document
	var extractedKey sql.NullString
	var wordCount sql.NullInt64
	var extractedAt sql.NullTime

	err := s.Scan(
		&d.ID, &d.UserID, &d.FileName, &d.OriginalFilename, &d.FileType, &d.MimeType,
		&d.SizeBytes, &d.StorageKey, &extractedKey, &wordCount, &d.Status, &extractedAt, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, err
		}
		return Document{}, fmt.Errorf("scan document: %w", err)
	}

	d.ExtractedTextKey = extractedKey.String
	d.WordCount = int(wordCount.Int64)
	if extractedAt.Valid {
		t := extractedAt.Time
		d.ExtractedAt = &t
	}
	return d, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}

var _ Repo = (*PGRepo)(nil)
