package league

import "github.com/padelops/courtledger/internal/rating"

// LeagueStore defines the interface for interacting with league master data.
type LeagueStore interface {
	UpsertPlayer(p Player) error
	GetPlayer(playerID string) (*Player, error)
	GetAllPlayers() ([]Player, error)
	HasPlaceholder(playerIDs []string) (bool, error)
	CreateLeague(name string) (*League, error)
	GetLeague(leagueID string) (*League, error)
	GetAllLeagues() ([]League, error)
	CreateSeason(leagueID, name string, scoring rating.ScoringSystem, pointsWin, pointsLoss float64) (*Season, error)
	GetSeason(seasonID string) (*Season, error)
	GetSeasonsForLeague(leagueID string) ([]Season, error)

	// Clear removes all seasons, leagues and players. Test support only.
	Clear() error
}
