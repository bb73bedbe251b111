package league

import (
	"database/sql"
	"sync"

	"github.com/padelops/courtledger/internal/rating"
)

// store handles all database operations for leagues, seasons and players.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Player is a league member. Placeholder players stand in for people without
// a real account; their presence forces a match to be unranked.
type Player struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	IsPlaceholder bool   `json:"is_placeholder"`
}

type League struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Season belongs to one league and carries its scoring configuration.
type Season struct {
	ID         string               `json:"id"`
	LeagueID   string               `json:"league_id"`
	Name       string               `json:"name"`
	Scoring    rating.ScoringSystem `json:"scoring_system"`
	PointsWin  float64              `json:"points_win"`
	PointsLoss float64              `json:"points_loss"`
}
