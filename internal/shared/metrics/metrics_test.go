package metrics

import (
	"strings"
	"testing"
)

func TestRenderCounters(t *testing.T) {
	IncSummaryStarted()
	IncSummaryCompleted()
	IncExtractionFailed()
	ObserveSummaryDurationMs(123)

	out := Render()
	for _, name := range []string{
		"summary_started_total",
		"summary_completed_total",
		"summary_failed_total",
		"extraction_failed_total",
		"summary_duration_ms_bucket",
		"summary_duration_ms_sum",
		"summary_duration_ms_count",
	} {
		if !strings.Contains(out, name) {
			t.Errorf("render missing %s", name)
		}
	}
}

func TestHistogramBuckets(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	if snap.count != 3 {
		t.Errorf("count = %d", snap.count)
	}
	if snap.counts[0] != 1 || snap.counts[1] != 2 {
		t.Errorf("bucket counts = %v", snap.counts)
	}
	if snap.sum != 555 {
		t.Errorf("sum = %f", snap.sum)
	}
}

func TestObserveNegativeClampsToZero(t *testing.T) {
	before := summaryDuration.Snapshot()
	ObserveSummaryDurationMs(-50)
	after := summaryDuration.Snapshot()
	if after.sum != before.sum {
		t.Errorf("negative observation changed sum: %f -> %f", before.sum, after.sum)
	}
	if after.count != before.count+1 {
		t.Errorf("count = %d", after.count)
	}
}
