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

type Server struct {
	Leagues        league.LeagueStore
	Ledger         ledger.LedgerStore
	Stats          stats.StatsStore
	Jobs           jobs.JobStore
	Processor      *processor.Processor
	Worker         *jobs.Worker
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
}
