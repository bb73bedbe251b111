package stats

import "github.com/padelops/courtledger/internal/rating"

// StatsStore defines the interface for the aggregate snapshot tables. Each
// Replace call atomically swaps the full row set for its scope: readers
// never observe a half-updated aggregate. Aggregates are a cache of the
// eligible match set, never a source of truth.
type StatsStore interface {
	ReplaceGlobal(snap *rating.Snapshot) error
	ReplaceSeason(seasonID string, snap *rating.Snapshot) error
	ReplaceLeague(leagueID string, snap *rating.Snapshot) error

	// GetRankings returns the ordered leaderboard for exactly one scope:
	// a single season, or a league aggregated across seasons.
	GetRankings(seasonID, leagueID string) ([]RankingEntry, error)

	// Clear removes every aggregate and history row. Test support only.
	Clear() error
}
