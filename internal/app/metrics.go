package app

import "time"

// Outcome labels reported to Metrics.
const (
	ResultLoaded  = "loaded"
	ResultErrored = "errored"
	ResultStale   = "stale"
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultInvalid = "invalid"
	ResultEmpty   = "empty"
)

// Metrics receives widget outcomes. *telemetry.WidgetMetrics satisfies it.
type Metrics interface {
	RefreshCompleted(result string, elapsed time.Duration)
	SubmissionCompleted(result string)
	ExportCompleted(result string)
}

type noopMetrics struct{}

func (noopMetrics) RefreshCompleted(string, time.Duration) {}
func (noopMetrics) SubmissionCompleted(string)             {}
func (noopMetrics) ExportCompleted(string)                 {}

func metricsOrNoop(m Metrics) Metrics {
	if m == nil {
		return noopMetrics{}
	}

	return m
}
