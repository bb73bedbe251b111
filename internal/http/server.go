package http

import (
	"net/http"

	"github.com/padelops/courtledger/internal/config"
	"github.com/padelops/courtledger/internal/jobs"
	"github.com/padelops/courtledger/internal/league"
	"github.com/padelops/courtledger/internal/ledger"
	"github.com/padelops/courtledger/internal/metrics"
	"github.com/padelops/courtledger/internal/processor"
	"github.com/padelops/courtledger/internal/stats"
)

func NewServer(leagues league.LeagueStore, ledgerStore ledger.LedgerStore, statsStore stats.StatsStore, jobStore jobs.JobStore, proc *processor.Processor, worker *jobs.Worker, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config) *Server {
	server := &Server{
		Leagues:        leagues,
		Ledger:         ledgerStore,
		Stats:          statsStore,
		Jobs:           jobStore,
		Processor:      proc,
		Worker:         worker,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("POST /clear", Chain(s.ClearStoreHandler(), paramsMiddleware))

	s.Router.Handle("GET /players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("POST /players", Chain(s.UpsertPlayerHandler(), paramsMiddleware))

	s.Router.Handle("GET /leagues", Chain(s.ListLeaguesHandler(), paramsMiddleware))
	s.Router.Handle("POST /leagues", Chain(s.CreateLeagueHandler(), paramsMiddleware))
	s.Router.Handle("GET /leagues/{id}", Chain(s.GetLeagueHandler(), paramsMiddleware))
	s.Router.Handle("GET /leagues/{id}/seasons", Chain(s.ListSeasonsHandler(), paramsMiddleware))
	s.Router.Handle("POST /leagues/{id}/seasons", Chain(s.CreateSeasonHandler(), paramsMiddleware))
	s.Router.Handle("GET /seasons/{id}", Chain(s.GetSeasonHandler(), paramsMiddleware))

	s.Router.Handle("POST /sessions", Chain(s.GetOrCreateSessionHandler(), paramsMiddleware))
	s.Router.Handle("GET /sessions/{id}", Chain(s.GetSessionHandler(), paramsMiddleware))
	s.Router.Handle("GET /sessions/{id}/matches", Chain(s.ListSessionMatchesHandler(), paramsMiddleware))
	s.Router.Handle("POST /sessions/{id}/lock-in", Chain(s.LockInSessionHandler(), paramsMiddleware))

	s.Router.Handle("POST /matches", Chain(s.CreateMatchHandler(), paramsMiddleware))
	s.Router.Handle("GET /matches/{id}", Chain(s.GetMatchHandler(), paramsMiddleware))
	s.Router.Handle("PATCH /matches/{id}", Chain(s.UpdateMatchHandler(), paramsMiddleware))

	s.Router.Handle("POST /calculate", Chain(s.TriggerCalculationHandler(), paramsMiddleware))
	s.Router.Handle("GET /jobs", Chain(s.QueueStatusHandler(), paramsMiddleware))
	s.Router.Handle("GET /jobs/{id}", Chain(s.GetJobHandler(), paramsMiddleware))

	s.Router.Handle("GET /rankings", Chain(s.RankingsHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
