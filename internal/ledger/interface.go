package ledger

import "github.com/padelops/courtledger/internal/rating"

// LedgerStore defines the interface for the match ledger: sessions, their
// lifecycle, and the eligible-match queries that feed recomputation.
type LedgerStore interface {
	// GetOrCreateActiveSession guarantees at most one ACTIVE session per
	// (league, season, date), even under concurrent match submission.
	GetOrCreateActiveSession(leagueID, seasonID, date string) (*Session, error)
	GetSession(sessionID string) (*Session, error)
	// LockInSession transitions ACTIVE to SUBMITTED, or SUBMITTED/EDITED to
	// EDITED, and returns the updated session.
	LockInSession(sessionID, updatedBy string) (*Session, error)

	CreateMatch(m NewMatch) (*Match, error)
	UpdateMatch(matchID string, update MatchUpdate) error
	GetMatch(matchID string) (*Match, error)
	GetMatchesForSession(sessionID string) ([]Match, error)

	// Eligible matches belong to SUBMITTED/EDITED sessions (or no session)
	// and are returned in replay order: session date, then match id.
	GetEligibleMatches() ([]rating.Match, error)
	GetEligibleMatchesForLeague(leagueID string) ([]rating.Match, error)
	GetEligibleMatchesForSeason(seasonID string) ([]rating.Match, error)

	// Clear removes all matches and sessions. Test support only.
	Clear() error
}
