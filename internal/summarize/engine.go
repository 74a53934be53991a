package summarize

import (
	"context"
	"errors"
	"strings"
)

// MinInputWords is the floor below which summarization is refused.
// Anything shorter produces degenerate output from the model.
const MinInputWords = 10

var (
	// ErrModelUnavailable is returned when the model cannot be loaded or reached.
	ErrModelUnavailable = errors.New("summarization model unavailable")
	// ErrInputTooShort is returned when the input has fewer than MinInputWords words.
	ErrInputTooShort = errors.New("input text too short to summarize")
)

// Options controls the target length of a generated summary, in tokens.
type Options struct {
	MinLength int
	MaxLength int
}

// Result is the outcome of a single generation. Output is not deterministic
// across model versions, so callers must not compare summaries byte for byte.
type Result struct {
	SummaryText      string
	WordCount        int
	ModelName        string
	GenerationTimeMs int64
}

// Engine produces abstractive summaries of plain text.
type Engine interface {
	Summarize(ctx context.Context, text string, opts Options) (Result, error)
	ModelName() string
}

// Long-input strategy: inputs over chunkThresholdWords are split into
// chunkSizeWords pieces, each summarized with the chunk bounds, and the
// joined chunk summaries are summarized once more with the caller's bounds.
const (
	chunkThresholdWords = 1000
	chunkSizeWords      = 800
	chunkMinLength      = 80
	chunkMaxLength      = 200
)

// Chunked wraps an Engine so documents longer than the model's context
// window are not silently truncated.
type Chunked struct {
	inner Engine
}

// NewChunked wraps inner with the chunk/combine/re-summarize strategy.
func NewChunked(inner Engine) *Chunked {
	return &Chunked{inner: inner}
}

// ModelName reports the wrapped engine's model identifier.
func (c *Chunked) ModelName() string {
	return c.inner.ModelName()
}

// Summarize delegates short inputs directly. Long inputs are summarized
// chunk by chunk, then the combined chunk summaries get a final pass with
// the requested bounds.
func (c *Chunked) Summarize(ctx context.Context, text string, opts Options) (Result, error) {
	words := strings.Fields(text)
	if len(words) <= chunkThresholdWords {
		return c.inner.Summarize(ctx, text, opts)
	}

	chunkOpts := Options{MinLength: chunkMinLength, MaxLength: chunkMaxLength}
	var parts []string
	for start := 0; start < len(words); start += chunkSizeWords {
		end := start + chunkSizeWords
		if end > len(words) {
			end = len(words)
		}
		chunk := strings.Join(words[start:end], " ")

		res, err := c.inner.Summarize(ctx, chunk, chunkOpts)
		if err != nil {
			return Result{}, err
		}
		parts = append(parts, res.SummaryText)
	}

	return c.inner.Summarize(ctx, strings.Join(parts, " "), opts)
}

var _ Engine = (*Chunked)(nil)

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
