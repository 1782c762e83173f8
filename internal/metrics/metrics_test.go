package metrics

import (
	"math"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func TestRecorderObserveCase(t *testing.T) {
	rec := NewRecorder(nil)
	rec.ObserveCase("valid", 200, 250*time.Millisecond)

	families := gather(t, rec, "pixelprobe_cases_total", "pixelprobe_case_duration_seconds")

	counter := findMetric(t, families["pixelprobe_cases_total"], map[string]string{
		"case":         "valid",
		"status_class": "2xx",
	})
	if counter.GetCounter() == nil {
		t.Fatalf("expected counter metric for cases")
	}
	if got := counter.GetCounter().GetValue(); got != 1 {
		t.Fatalf("expected counter value 1, got %v", got)
	}

	histMetric := findMetric(t, families["pixelprobe_case_duration_seconds"], map[string]string{
		"case": "valid",
	})
	hist := histMetric.GetHistogram()
	if hist == nil {
		t.Fatalf("expected histogram metric for case duration")
	}
	if hist.GetSampleCount() != 1 {
		t.Fatalf("expected histogram count 1, got %d", hist.GetSampleCount())
	}
	want := 0.25
	if diff := math.Abs(hist.GetSampleSum() - want); diff > 0.001 {
		t.Fatalf("expected histogram sum near %v, got %v", want, hist.GetSampleSum())
	}
}

func TestRecorderTransportStatusClass(t *testing.T) {
	rec := NewRecorder(nil)
	rec.ObserveCase("not_json_body", 0, 5*time.Millisecond)

	families := gather(t, rec, "pixelprobe_cases_total")
	counter := findMetric(t, families["pixelprobe_cases_total"], map[string]string{
		"case":         "not_json_body",
		"status_class": StatusClassTransport,
	})
	if got := counter.GetCounter().GetValue(); got != 1 {
		t.Fatalf("expected transport counter 1, got %v", got)
	}
}

func TestStatusClass(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{0, "transport"},
		{200, "2xx"},
		{204, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{403, "4xx"},
		{500, "5xx"},
		{599, "5xx"},
		{600, "unknown"},
		{-1, "unknown"},
		{99, "unknown"},
	}
	for _, tc := range tests {
		if got := StatusClass(tc.status); got != tc.want {
			t.Fatalf("StatusClass(%d) = %q, want %q", tc.status, got, tc.want)
		}
	}
}

func TestSnapshotAggregatesByClass(t *testing.T) {
	rec := NewRecorder(nil)
	rec.ObserveCase("valid", 200, time.Millisecond)
	rec.ObserveCase("too_long_title", 400, time.Millisecond)
	rec.ObserveCase("wrong_length_pixels", 400, time.Millisecond)
	rec.ObserveCase("not_json_body", 0, time.Millisecond)

	summary, err := rec.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if summary.TotalCases != 4 {
		t.Fatalf("expected 4 total cases, got %d", summary.TotalCases)
	}
	if got := summary.ByClass["2xx"]; got != 1 {
		t.Fatalf("expected one 2xx case, got %d", got)
	}
	if got := summary.ByClass["4xx"]; got != 2 {
		t.Fatalf("expected two 4xx cases, got %d", got)
	}
	if got := summary.ByClass[StatusClassTransport]; got != 1 {
		t.Fatalf("expected one transport case, got %d", got)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	rec.ObserveCase("valid", 200, time.Millisecond)
	summary, err := rec.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if summary.TotalCases != 0 {
		t.Fatalf("expected empty summary, got %d", summary.TotalCases)
	}
}

func gather(t *testing.T, rec *Recorder, names ...string) map[string][]*dto.Metric {
	t.Helper()
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}
	families, err := rec.Gatherer().Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	collected := make(map[string][]*dto.Metric, len(names))
	for _, mf := range families {
		if !wanted[mf.GetName()] {
			continue
		}
		collected[mf.GetName()] = append(collected[mf.GetName()], mf.GetMetric()...)
	}
	for _, name := range names {
		if len(collected[name]) == 0 {
			t.Fatalf("metric %q not collected", name)
		}
	}
	return collected
}

func findMetric(t *testing.T, metrics []*dto.Metric, labels map[string]string) *dto.Metric {
	t.Helper()
	for _, metric := range metrics {
		if matchLabels(metric, labels) {
			return metric
		}
	}
	t.Fatalf("metric with labels %v not found", labels)
	return nil
}

func matchLabels(metric *dto.Metric, labels map[string]string) bool {
	if len(metric.GetLabel()) < len(labels) {
		return false
	}
	for key, expected := range labels {
		found := false
		for _, label := range metric.GetLabel() {
			if label.GetName() == key && label.GetValue() == expected {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
