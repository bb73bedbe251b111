package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		SessionsLockedIn: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_sessions_locked_in_total",
			Help: "The total number of sessions locked in for aggregation.",
		}),
		MatchesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_matches_recorded_total",
			Help: "The total number of match results recorded.",
		}),
		JobsEnqueued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_calculation_jobs_enqueued_total",
			Help: "The total number of stats calculation jobs enqueued.",
		}),
		JobsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_calculation_jobs_completed_total",
			Help: "The total number of stats calculation jobs that completed.",
		}),
		JobsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_calculation_jobs_failed_total",
			Help: "The total number of stats calculation jobs that failed.",
		}),
		RecomputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "league_recompute_duration_seconds",
			Help:    "The duration of individual recomputation jobs.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "league_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.SessionsLockedIn,
		s.MatchesRecorded,
		s.JobsEnqueued,
		s.JobsCompleted,
		s.JobsFailed,
		s.RecomputeDuration,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncSessionsLockedIn() {
	s.SessionsLockedIn.Inc()
}

func (s *Service) IncMatchesRecorded() {
	s.MatchesRecorded.Inc()
}

func (s *Service) IncJobsEnqueued() {
	s.JobsEnqueued.Inc()
}

func (s *Service) IncJobsCompleted() {
	s.JobsCompleted.Inc()
}

func (s *Service) IncJobsFailed() {
	s.JobsFailed.Inc()
}

func (s *Service) ObserveRecomputeDuration(duration float64) {
	s.RecomputeDuration.Observe(duration)
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
