package summaries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PGRepo is the Postgres-backed summary repository.
type PGRepo struct {
	db *sql.DB
}

// NewPGRepo creates a Postgres summary repository.
func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{db: db}
}

const summaryColumns = `id, document_id, user_id, summary_text, word_count, compression_ratio,
	model_name, min_length, max_length, generation_time_ms, created_at`

func (r *PGRepo) Create(ctx context.Context, s Summary) error {
	const q = `
		INSERT INTO summaries (id, document_id, user_id, summary_text, word_count, compression_ratio,
			model_name, min_length, max_length, generation_time_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, q,
		s.ID, s.DocumentID, s.UserID, s.SummaryText, s.WordCount, s.CompressionRatio,
		s.ModelName, s.MinLength, s.MaxLength, s.GenerationTimeMs, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert summary: %w", err)
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, userID, id string) (Summary, error) {
	q := fmt.Sprintf(`SELECT %s FROM summaries WHERE user_id = $1 AND id = $2`, summaryColumns)

	s, err := scanSummary(r.db.QueryRowContext(ctx, q, userID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Summary{}, ErrNotFound
	}
	return s, err
}

func (r *PGRepo) List(ctx context.Context, userID string, limit, offset int) ([]Summary, error) {
	q := fmt.Sprintf(`
		SELECT %s FROM summaries
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`, summaryColumns)

	return r.queryMany(ctx, q, userID, limit, offset)
}

func (r *PGRepo) ListByDocument(ctx context.Context, userID, documentID string) ([]Summary, error) {
	q := fmt.Sprintf(`
		SELECT %s FROM summaries
		WHERE user_id = $1 AND document_id = $2
		ORDER BY created_at DESC, id DESC`, summaryColumns)

	return r.queryMany(ctx, q, userID, documentID)
}

func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	const q = `DELETE FROM summaries WHERE user_id = $1 AND id = $2`

	res, err := r.db.ExecContext(ctx, q, userID, id)
	if err != nil {
		return fmt.Errorf("delete summary: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete summary: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) DeleteByDocument(ctx context.Context, userID, documentID string) error {
	const q = `DELETE FROM summaries WHERE user_id = $1 AND document_id = $2`

	if _, err := r.db.ExecContext(ctx, q, userID, documentID); err != nil {
		return fmt.Errorf("delete summaries by document: %w", err)
	}
	return nil
}

func (r *PGRepo) queryMany(ctx context.Context, q string, args ...any) ([]Summary, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	items := []Summary{}
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSummary(s rowScanner) (Summary, error) {
	var out Summary
	var ratio sql.NullFloat64
	var genTime sql.NullInt64

	err := s.Scan(
		&out.ID, &out.DocumentID, &out.UserID, &out.SummaryText, &out.WordCount, &ratio,
		&out.ModelName, &out.MinLength, &out.MaxLength, &genTime, &out.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Summary{}, err
		}
		return Summary{}, fmt.Errorf("scan summary: %w", err)
	}

	out.CompressionRatio = ratio.Float64
	out.GenerationTimeMs = genTime.Int64
	return out, nil
}

var _ Repo = (*PGRepo)(nil)
