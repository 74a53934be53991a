package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSignAndVerify(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := SignJWT(Claims{Sub: "user-1", Email: "a@example.com"}, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := VerifyJWT(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Sub != "user-1" || claims.Email != "a@example.com" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Exp <= time.Now().Unix() {
		t.Errorf("exp not in the future: %d", claims.Exp)
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := SignJWT(Claims{Sub: "user-1"}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "." + "AAAA"
	if _, err := VerifyJWT(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}

	if _, err := VerifyJWT("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage: expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := SignJWT(Claims{Sub: "user-1", Exp: time.Now().Add(-time.Minute).Unix()}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := VerifyJWT(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-one")
	token, err := SignJWT(Claims{Sub: "user-1"}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	t.Setenv("JWT_SECRET", "secret-two")
	if _, err := VerifyJWT(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestProductionRequiresSecret(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")

	if _, err := SignJWT(Claims{Sub: "user-1"}, time.Hour); err == nil {
		t.Error("expected error without JWT_SECRET in production")
	}
}
