package bart

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"summarizer-backend/internal/shared/telemetry"
	"summarizer-backend/internal/summarize"
)

// Client talks to the model inference sidecar over HTTP. The sidecar hosts a
// pretrained transformer; the first request triggers the weight load, which
// can take tens of seconds, so readiness is established once and shared.
type Client struct {
	baseURL    string
	modelName  string
	httpClient *http.Client

	mu      sync.Mutex
	cond    *sync.Cond
	ready   bool
	loading bool
}

// New creates a client for the inference sidecar at baseURL.
func New(baseURL, modelName string) *Client {
	c := &Client{
		baseURL:   baseURL,
		modelName: modelName,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// ModelName reports the configured model identifier.
func (c *Client) ModelName() string {
	return c.modelName
}

type summarizeRequest struct {
	Text      string `json:"text"`
	Model     string `json:"model"`
	MinLength int    `json:"min_length"`
	MaxLength int    `json:"max_length"`
}

type summarizeResponse struct {
	SummaryText string `json:"summary_text"`
	ModelName   string `json:"model_name"`
}

// Summarize sends text to the sidecar and returns the generated summary.
// The first caller pays the model warmup cost; concurrent callers wait on
// the same load instead of racing duplicate loads.
func (c *Client) Summarize(ctx context.Context, text string, opts summarize.Options) (summarize.Result, error) {
	if summarize.WordCount(text) < summarize.MinInputWords {
		return summarize.Result{}, summarize.ErrInputTooShort
	}

	if err := c.ensureReady(ctx); err != nil {
		return summarize.Result{}, err
	}

	payload, err := json.Marshal(summarizeRequest{
		Text:      text,
		Model:     c.modelName,
		MinLength: opts.MinLength,
		MaxLength: opts.MaxLength,
	})
	if err != nil {
		return summarize.Result{}, fmt.Errorf("marshal summarize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/summarize", bytes.NewReader(payload))
	if err != nil {
		return summarize.Result{}, fmt.Errorf("build summarize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.markUnavailable()
		return summarize.Result{}, fmt.Errorf("%w: %v", summarize.ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return summarize.Result{}, fmt.Errorf("read summarize response: %w", err)
	}

	if resp.StatusCode == http.StatusServiceUnavailable {
		c.markUnavailable()
		return summarize.Result{}, fmt.Errorf("%w: sidecar returned 503", summarize.ErrModelUnavailable)
	}
	if resp.StatusCode != http.StatusOK {
		return summarize.Result{}, fmt.Errorf("summarize sidecar status=%d body=%s", resp.StatusCode, truncate(string(body), 256))
	}

	var out summarizeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return summarize.Result{}, fmt.Errorf("decode summarize response: %w", err)
	}

	modelName := out.ModelName
	if modelName == "" {
		modelName = c.modelName
	}

	return summarize.Result{
		SummaryText:      out.SummaryText,
		WordCount:        summarize.WordCount(out.SummaryText),
		ModelName:        modelName,
		GenerationTimeMs: time.Since(start).Milliseconds(),
	}, nil
}

// ensureReady performs a single-flight readiness check against the sidecar.
// A failed load is forgotten so a later call can retry.
func (c *Client) ensureReady(ctx context.Context) error {
	c.mu.Lock()
	for {
		if c.ready {
			c.mu.Unlock()
			return nil
		}
		if !c.loading {
			break
		}
		c.cond.Wait()
	}
	c.loading = true
	c.mu.Unlock()

	err := c.warmup(ctx)

	c.mu.Lock()
	c.loading = false
	c.ready = err == nil
	c.cond.Broadcast()
	c.mu.Unlock()

	if err != nil {
		return fmt.Errorf("%w: %v", summarize.ErrModelUnavailable, err)
	}
	return nil
}

func (c *Client) warmup(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("build warmup request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("warmup: %v", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("warmup: sidecar status=%d", resp.StatusCode)
	}

	telemetry.Info("model warmed up", map[string]any{
		"model":      c.modelName,
		"durationMs": time.Since(start).Milliseconds(),
	})
	return nil
}

func (c *Client) markUnavailable() {
	c.mu.Lock()
	c.ready = false
	c.mu.Unlock()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

var _ summarize.Engine = (*Client)(nil)
