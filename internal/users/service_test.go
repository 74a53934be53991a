package users

import (
	"context"
	"errors"
	"testing"
)

func TestRegisterAndLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := NewService(NewMemoryRepo(), 0)

	u, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "Alice@Example.com",
		Password: "correct horse battery",
		FullName: "Alice A",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Email != "alice@example.com" {
		t.Errorf("email not normalized: %q", u.Email)
	}
	if u.PasswordHash == "correct horse battery" {
		t.Fatal("password stored in plaintext")
	}

	got, token, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ALICE@example.com",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("login returned wrong user: %s", got.ID)
	}
	if token.AccessToken == "" {
		t.Error("empty access token")
	}
	if token.TokenType != "bearer" {
		t.Errorf("token type = %q", token.TokenType)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(NewMemoryRepo(), 0)

	req := RegisterRequest{Email: "bob@example.com", Password: "longenough"}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(context.Background(), req)
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterRejectsWeakInput(t *testing.T) {
	svc := NewService(NewMemoryRepo(), 0)

	cases := []RegisterRequest{
		{Email: "carol@example.com", Password: "short"},
		{Email: "not-an-email", Password: "longenough"},
		{Email: "", Password: "longenough"},
	}
	for _, req := range cases {
		if _, err := svc.Register(context.Background(), req); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("register(%q): expected ErrInvalidInput, got %v", req.Email, err)
		}
	}
}

func TestLoginWrongPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := NewService(NewMemoryRepo(), 0)

	if _, err := svc.Register(context.Background(), RegisterRequest{Email: "dave@example.com", Password: "longenough"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, err := svc.Login(context.Background(), LoginRequest{Email: "dave@example.com", Password: "wrongpassword"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}

	_, _, err = svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "longenough"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}
