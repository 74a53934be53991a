package users

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"summarizer-backend/internal/shared/auth"
	"summarizer-backend/internal/shared/telemetry"
)

const minPasswordLen = 8

// Service implements account registration and credential login.
type Service struct {
	repo     Repo
	tokenTTL time.Duration
}

// NewService creates a user service. tokenTTL bounds issued token lifetimes.
func NewService(repo Repo, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 30 * time.Minute
	}
	return &Service{repo: repo, tokenTTL: tokenTTL}
}

// Register creates a new account. Emails are normalized to lower case so the
// same address cannot register twice with different casing.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (User, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return User{}, err
	}
	if len(req.Password) < minPasswordLen {
		return User{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLen)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	u := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}

	telemetry.Info("user registered", map[string]any{"userId": u.ID})
	return u, nil
}

// Login verifies credentials and issues a bearer token. Unknown emails and
// wrong passwords return the same error so callers cannot probe accounts.
func (s *Service) Login(ctx context.Context, req LoginRequest) (User, TokenResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return User{}, TokenResponse{}, ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return User{}, TokenResponse{}, ErrInvalidCredentials
	}

	ok, err := auth.VerifyPassword(req.Password, u.PasswordHash)
	if err != nil || !ok {
		return User{}, TokenResponse{}, ErrInvalidCredentials
	}

	token, err := auth.SignJWT(auth.Claims{Sub: u.ID, Email: u.Email}, s.tokenTTL)
	if err != nil {
		return User{}, TokenResponse{}, fmt.Errorf("sign token: %w", err)
	}

	return u, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.tokenTTL / time.Second),
		User:        ToUserResponse(u),
	}, nil
}

// GetByID fetches an account by its ID.
func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	if strings.TrimSpace(id) == "" {
		return User{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func normalizeEmail(email string) (string, error) {
	trimmed := strings.TrimSpace(strings.ToLower(email))
	if trimmed == "" {
		return "", fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	return trimmed, nil
}
