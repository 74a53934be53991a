package summaries

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"summarizer-backend/internal/summarize"
)

func newHandlerRouter(t *testing.T) (*gin.Engine, *fixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := newFixture(t)
	h := NewHandler(f.svc)

	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
	})
	h.RegisterRoutes(api)
	return r, f
}

func generateBody(t *testing.T, docID string) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(GenerateRequest{DocumentID: docID})
	if err != nil {
		t.Fatal(err)
	}
	return bytes.NewReader(body)
}

func TestGenerateEndpoint(t *testing.T) {
	r, f := newHandlerRouter(t)
	doc := f.uploadDoc(t, "user-1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/summaries/generate", generateBody(t, doc.ID))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}

	var resp SummaryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.DocumentID != doc.ID || resp.SummaryText == "" {
		t.Errorf("response = %+v", resp)
	}
}

func TestGenerateEndpointDocumentNotFound(t *testing.T) {
	r, _ := newHandlerRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/summaries/generate", generateBody(t, "nope"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d body = %s", w.Code, w.Body.String())
	}
}

func TestGenerateEndpointModelUnavailable(t *testing.T) {
	r, f := newHandlerRouter(t)
	doc := f.uploadDoc(t, "user-1")
	f.engine.err = summarize.ErrModelUnavailable

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/summaries/generate", generateBody(t, doc.ID))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d body = %s", w.Code, w.Body.String())
	}
}

func TestGenerateEndpointNoText(t *testing.T) {
	r, f := newHandlerRouter(t)

	doc, err := f.docs.Upload(context.Background(), "user-1", "broken.docx",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		12, strings.NewReader("not a docx!!"))
	if err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/summaries/generate", generateBody(t, doc.ID))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d body = %s", w.Code, w.Body.String())
	}
}

func TestListEndpoints(t *testing.T) {
	r, f := newHandlerRouter(t)
	doc := f.uploadDoc(t, "user-1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/summaries/generate", generateBody(t, doc.ID))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("generate status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/summaries", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var list ListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Summaries) != 1 {
		t.Errorf("list size = %d", len(list.Summaries))
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+doc.ID+"/summaries", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("by-document status = %d body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), list.Summaries[0].ID) {
		t.Error("by-document response missing summary")
	}
}

func TestDeleteEndpoint(t *testing.T) {
	r, f := newHandlerRouter(t)
	doc := f.uploadDoc(t, "user-1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/summaries/generate", generateBody(t, doc.ID))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	var resp SummaryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/summaries/"+resp.ID, nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/summaries/"+resp.ID, nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d", w.Code)
	}
}
