package processor

import (
	"github.com/padelops/courtledger/internal/league"
	"github.com/padelops/courtledger/internal/ledger"
	"github.com/padelops/courtledger/internal/rating"
)

// LeagueStore defines the master-data operations required by the processor.
type LeagueStore interface {
	GetLeague(leagueID string) (*league.League, error)
	GetSeasonsForLeague(leagueID string) ([]league.Season, error)
}

// LedgerStore defines the ledger operations required by the processor.
type LedgerStore interface {
	LockInSession(sessionID, updatedBy string) (*ledger.Session, error)
	GetEligibleMatches() ([]rating.Match, error)
	GetEligibleMatchesForLeague(leagueID string) ([]rating.Match, error)
	GetEligibleMatchesForSeason(seasonID string) ([]rating.Match, error)
}

// StatsStore defines the snapshot operations required by the processor.
type StatsStore interface {
	ReplaceGlobal(snap *rating.Snapshot) error
	ReplaceSeason(seasonID string, snap *rating.Snapshot) error
	ReplaceLeague(leagueID string, snap *rating.Snapshot) error
}
