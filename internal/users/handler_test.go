package users

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"summarizer-backend/internal/shared/server/middleware"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	svc := NewService(NewMemoryRepo(), 0)
	h := NewHandler(svc)

	r := gin.New()
	api := r.Group("/api/v1")
	h.RegisterPublicRoutes(api)

	authed := api.Group("")
	authed.Use(middleware.Auth())
	h.RegisterProtectedRoutes(authed)
	return r, svc
}

func TestRegisterEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	body, _ := json.Marshal(RegisterRequest{Email: "a@example.com", Password: "longenough", FullName: "A"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var resp UserResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Email != "a@example.com" || resp.ID == "" {
		t.Errorf("unexpected response: %+v", resp)
	}

	// Duplicate registration conflicts.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d", w.Code)
	}
}

func TestLoginAndMeEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	register := func(email, password string) {
		body, _ := json.Marshal(RegisterRequest{Email: email, Password: password})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("register status = %d body = %s", w.Code, w.Body.String())
		}
	}
	register("b@example.com", "longenough")

	body, _ := json.Marshal(LoginRequest{Email: "b@example.com", Password: "longenough"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d body = %s", w.Code, w.Body.String())
	}

	var token TokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &token); err != nil {
		t.Fatal(err)
	}
	if token.AccessToken == "" {
		t.Fatal("empty access token")
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("me status = %d body = %s", w.Code, w.Body.String())
	}

	var me UserResponse
	if err := json.Unmarshal(w.Body.Bytes(), &me); err != nil {
		t.Fatal(err)
	}
	if me.Email != "b@example.com" {
		t.Errorf("me email = %q", me.Email)
	}
}

func TestMeRequiresToken(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad token status = %d", w.Code)
	}
}

func TestLoginInvalidCredentialsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	body, _ := json.Marshal(LoginRequest{Email: "ghost@example.com", Password: "longenough"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d body = %s", w.Code, w.Body.String())
	}
}
