package processor

import (
	"github.com/padelops/courtledger/internal/jobs"
	"github.com/padelops/courtledger/internal/metrics"
)

// Processor handles the business logic of locking in sessions and replaying
// the eligible match set into aggregate snapshots.
type Processor struct {
	leagues LeagueStore
	ledger  LedgerStore
	stats   StatsStore
	queue   jobs.JobStore
	metrics metrics.Metrics
}
