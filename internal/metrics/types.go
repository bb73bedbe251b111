package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	SessionsLockedIn   prometheus.Counter
	MatchesRecorded    prometheus.Counter
	JobsEnqueued       prometheus.Counter
	JobsCompleted      prometheus.Counter
	JobsFailed         prometheus.Counter
	RecomputeDuration  prometheus.Histogram
	StartupTimeSeconds prometheus.Gauge
}
