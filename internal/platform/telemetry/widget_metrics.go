package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WidgetMetrics counts widget outcomes for the /-/metrics endpoint.
// All methods are safe on a nil receiver.
type WidgetMetrics struct {
	refreshes     *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	submissions   *prometheus.CounterVec
	exports       *prometheus.CounterVec
}

// NewWidgetMetrics registers the widget collectors with reg.
func NewWidgetMetrics(reg prometheus.Registerer) (*WidgetMetrics, error) {
	m := &WidgetMetrics{
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quote_widget",
			Name:      "refreshes_total",
			Help:      "Refresh completions by result (loaded, errored, stale).",
		}, []string{"result"}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quote_widget",
			Name:      "fetch_duration_seconds",
			Help:      "Time spent fetching a random quote.",
			Buckets:   prometheus.DefBuckets,
		}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quote_widget",
			Name:      "submissions_total",
			Help:      "Quote submissions by result (success, failure, invalid).",
		}, []string{"result"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quote_widget",
			Name:      "exports_total",
			Help:      "Image exports by result (success, failure, empty).",
		}, []string{"result"}),
	}

	for _, c := range []prometheus.Collector{m.refreshes, m.fetchDuration, m.submissions, m.exports} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// RefreshCompleted records one refresh outcome.
func (m *WidgetMetrics) RefreshCompleted(result string, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.refreshes.WithLabelValues(result).Inc()
	m.fetchDuration.Observe(elapsed.Seconds())
}

// SubmissionCompleted records one submission outcome.
func (m *WidgetMetrics) SubmissionCompleted(result string) {
	if m == nil {
		return
	}

	m.submissions.WithLabelValues(result).Inc()
}

// ExportCompleted records one export outcome.
func (m *WidgetMetrics) ExportCompleted(result string) {
	if m == nil {
		return
	}

	m.exports.WithLabelValues(result).Inc()
}
