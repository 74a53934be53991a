package summarize

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

type recordingEngine struct {
	calls []recordedCall
}

type recordedCall struct {
	wordCount int
	opts      Options
}

func (e *recordingEngine) Summarize(ctx context.Context, text string, opts Options) (Result, error) {
	e.calls = append(e.calls, recordedCall{wordCount: WordCount(text), opts: opts})
	summary := fmt.Sprintf("summary-%d", len(e.calls))
	return Result{SummaryText: summary, WordCount: WordCount(summary), ModelName: "test-model"}, nil
}

func (e *recordingEngine) ModelName() string { return "test-model" }

func manyWords(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("word%d", i)
	}
	return strings.Join(words, " ")
}

func TestChunkedShortInputPassesThrough(t *testing.T) {
	inner := &recordingEngine{}
	engine := NewChunked(inner)

	opts := Options{MinLength: 30, MaxLength: 130}
	if _, err := engine.Summarize(context.Background(), manyWords(1000), opts); err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	if len(inner.calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(inner.calls))
	}
	if inner.calls[0].wordCount != 1000 {
		t.Errorf("call word count = %d, want 1000", inner.calls[0].wordCount)
	}
	if inner.calls[0].opts != opts {
		t.Errorf("call opts = %+v, want %+v", inner.calls[0].opts, opts)
	}
}

func TestChunkedLongInputSplitsAndRecombines(t *testing.T) {
	inner := &recordingEngine{}
	engine := NewChunked(inner)

	opts := Options{MinLength: 30, MaxLength: 130}
	res, err := engine.Summarize(context.Background(), manyWords(2000), opts)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	// 2000 words split into 800-word pieces gives 800+800+400, plus the
	// final pass over the combined chunk summaries.
	if len(inner.calls) != 4 {
		t.Fatalf("calls = %d, want 4", len(inner.calls))
	}

	wantChunkWords := []int{800, 800, 400}
	for i, want := range wantChunkWords {
		call := inner.calls[i]
		if call.wordCount != want {
			t.Errorf("chunk %d word count = %d, want %d", i, call.wordCount, want)
		}
		if call.opts.MinLength != 80 || call.opts.MaxLength != 200 {
			t.Errorf("chunk %d opts = %+v, want min=80 max=200", i, call.opts)
		}
	}

	final := inner.calls[3]
	if final.opts != opts {
		t.Errorf("final opts = %+v, want %+v", final.opts, opts)
	}
	// The final pass sees the joined chunk summaries, one per chunk.
	if final.wordCount != 3 {
		t.Errorf("final input word count = %d, want 3", final.wordCount)
	}
	if res.SummaryText != "summary-4" {
		t.Errorf("summary = %q, want result of final pass", res.SummaryText)
	}
}

func TestChunkedPropagatesChunkError(t *testing.T) {
	inner := &failingEngine{failOn: 2}
	engine := NewChunked(inner)

	_, err := engine.Summarize(context.Background(), manyWords(1500), Options{MinLength: 30, MaxLength: 130})
	if err == nil {
		t.Fatal("expected error from failing chunk")
	}
}

type failingEngine struct {
	calls  int
	failOn int
}

func (e *failingEngine) Summarize(ctx context.Context, text string, opts Options) (Result, error) {
	e.calls++
	if e.calls == e.failOn {
		return Result{}, ErrModelUnavailable
	}
	return Result{SummaryText: "ok", WordCount: 1, ModelName: "test-model"}, nil
}

func (e *failingEngine) ModelName() string { return "test-model" }
