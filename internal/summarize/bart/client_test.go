package bart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"summarizer-backend/internal/summarize"
)

const longText = "the quick brown fox jumps over the lazy dog and keeps on running through the field"

func TestSummarize(t *testing.T) {
	var warmups atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/healthz":
			warmups.Add(1)
			w.WriteHeader(http.StatusOK)
		case "/summarize":
			var req summarizeRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode request: %v", err)
			}
			if req.MinLength != 30 || req.MaxLength != 130 {
				t.Errorf("unexpected lengths min=%d max=%d", req.MinLength, req.MaxLength)
			}
			json.NewEncoder(w).Encode(summarizeResponse{
				SummaryText: "a fox jumps over a dog",
				ModelName:   "facebook/bart-large-cnn",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := New(srv.URL, "facebook/bart-large-cnn")
	res, err := client.Summarize(context.Background(), longText, summarize.Options{MinLength: 30, MaxLength: 130})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.SummaryText != "a fox jumps over a dog" {
		t.Errorf("got %q", res.SummaryText)
	}
	if res.WordCount != 6 {
		t.Errorf("word count = %d, want 6", res.WordCount)
	}
	if res.ModelName != "facebook/bart-large-cnn" {
		t.Errorf("model name = %q", res.ModelName)
	}

	// Second call reuses the established readiness.
	if _, err := client.Summarize(context.Background(), longText, summarize.Options{MinLength: 30, MaxLength: 130}); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if n := warmups.Load(); n != 1 {
		t.Errorf("warmup called %d times, want 1", n)
	}
}

func TestSummarizeInputTooShort(t *testing.T) {
	client := New("http://localhost:0", "facebook/bart-large-cnn")
	_, err := client.Summarize(context.Background(), "too short", summarize.Options{MinLength: 30, MaxLength: 130})
	if !errors.Is(err, summarize.ErrInputTooShort) {
		t.Errorf("expected ErrInputTooShort, got %v", err)
	}
}

func TestSummarizeModelUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := New(srv.URL, "facebook/bart-large-cnn")
	_, err := client.Summarize(context.Background(), longText, summarize.Options{MinLength: 30, MaxLength: 130})
	if !errors.Is(err, summarize.ErrModelUnavailable) {
		t.Errorf("expected ErrModelUnavailable, got %v", err)
	}
}

func TestWarmupFailureIsRetryable(t *testing.T) {
	var healthy atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			if healthy.Load() {
				w.WriteHeader(http.StatusOK)
			} else {
				w.WriteHeader(http.StatusServiceUnavailable)
			}
			return
		}
		json.NewEncoder(w).Encode(summarizeResponse{SummaryText: "short summary of text"})
	}))
	defer srv.Close()

	client := New(srv.URL, "facebook/bart-large-cnn")

	if _, err := client.Summarize(context.Background(), longText, summarize.Options{MinLength: 30, MaxLength: 130}); !errors.Is(err, summarize.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable while unhealthy, got %v", err)
	}

	healthy.Store(true)
	if _, err := client.Summarize(context.Background(), longText, summarize.Options{MinLength: 30, MaxLength: 130}); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
}

func TestEnsureReadySingleFlight(t *testing.T) {
	var warmups atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			warmups.Add(1)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := New(srv.URL, "facebook/bart-large-cnn")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := client.ensureReady(context.Background()); err != nil {
				t.Errorf("ensureReady: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := warmups.Load(); n != 1 {
		t.Errorf("warmup called %d times, want 1", n)
	}
}

func TestWordCount(t *testing.T) {
	if n := summarize.WordCount("  one two\nthree  "); n != 3 {
		t.Errorf("got %d", n)
	}
	if n := summarize.WordCount(strings.Repeat(" ", 5)); n != 0 {
		t.Errorf("got %d", n)
	}
}
