package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// PGRepo is the Postgres-backed user repository.
type PGRepo struct {
	db *sql.DB
}

// NewPGRepo creates a Postgres user repository.
func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{db: db}
}

const uniqueViolation = "23505"

func (r *PGRepo) Create(ctx context.Context, u User) error {
	const q = `
		INSERT INTO users (id, email, password_hash, full_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, q, u.ID, u.Email, u.PasswordHash, u.FullName, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	const q = `
		SELECT id, email, password_hash, full_name, created_at, updated_at
		FROM users
		WHERE email = $1`

	return r.scanOne(r.db.QueryRowContext(ctx, q, email))
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (User, error) {
	const q = `
		SELECT id, email, password_hash, full_name, created_at, updated_at
		FROM users
		WHERE id = $1`

	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

func (r *PGRepo) scanOne(row *sql.Row) (User, error) {
	var u User
	var fullName sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &fullName, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("scan user: %w", err)
	}
	u.FullName = fullName.String
	return u, nil
}

var _ Repo = (*PGRepo)(nil)
