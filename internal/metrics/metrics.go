package metrics

import (
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StatusClassTransport labels results whose request never produced an HTTP
// response (status 0).
const StatusClassTransport = "transport"

// Recorder publishes Prometheus metrics for probe case executions.
type Recorder struct {
	gatherer prometheus.Gatherer

	casesTotal   *prometheus.CounterVec
	caseDuration *prometheus.HistogramVec
}

// NewRecorder constructs a Prometheus-backed Recorder. When reg is nil a
// dedicated registry is created so multiple recorders can coexist without
// conflicting with the global default registerer.
func NewRecorder(reg *prometheus.Registry) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	casesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pixelprobe",
		Name:      "cases_total",
		Help:      "Total probe cases executed, by case name and response status class.",
	}, []string{"case", "status_class"})

	caseDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pixelprobe",
		Name:      "case_duration_seconds",
		Help:      "Wall-clock duration of each probe case including the HTTP exchange.",
		Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"case"})

	reg.MustRegister(casesTotal, caseDuration)

	return &Recorder{
		gatherer:     reg,
		casesTotal:   casesTotal,
		caseDuration: caseDuration,
	}
}

// Gatherer returns the underlying Prometheus gatherer for tests and the
// end-of-run snapshot.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.gatherer
}

// ObserveCase records the outcome and duration of one completed case.
func (r *Recorder) ObserveCase(name string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	caseLabel := normalizeLabel(name)
	classLabel := StatusClass(status)
	r.casesTotal.WithLabelValues(caseLabel, classLabel).Inc()
	r.caseDuration.WithLabelValues(caseLabel).Observe(duration.Seconds())
}

// Summary aggregates the recorder's counters for the end-of-run log line.
type Summary struct {
	TotalCases int
	ByClass    map[string]int
}

// Snapshot gathers the registry and folds the case counters into a Summary.
// A one-shot process has nothing to scrape, so the registry is read out at
// exit instead of being served over HTTP.
func (r *Recorder) Snapshot() (Summary, error) {
	summary := Summary{ByClass: make(map[string]int)}
	if r == nil {
		return summary, nil
	}
	families, err := r.gatherer.Gather()
	if err != nil {
		return Summary{}, fmt.Errorf("metrics: gather: %w", err)
	}
	for _, mf := range families {
		if mf.GetName() != "pixelprobe_cases_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			count := int(metric.GetCounter().GetValue())
			summary.TotalCases += count
			for _, label := range metric.GetLabel() {
				if label.GetName() == "status_class" {
					summary.ByClass[label.GetValue()] += count
				}
			}
		}
	}
	return summary, nil
}

// StatusClass buckets an HTTP status code into its metric label: 2xx..5xx,
// "transport" for the synthetic status 0, "unknown" otherwise.
func StatusClass(status int) string {
	switch {
	case status == 0:
		return StatusClassTransport
	case status >= 200 && status < 600:
		return fmt.Sprintf("%dxx", status/100)
	default:
		return "unknown"
	}
}

func normalizeLabel(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "unknown"
	}
	return trimmed
}
