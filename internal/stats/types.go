package stats

import (
	"database/sql"
	"sync"
)

// store handles all database operations for the aggregate tables.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// RankingEntry is one row of a leaderboard. ELO is always the global current
// rating, never a scope-local one; points and games are scope-local.
type RankingEntry struct {
	PlayerID     string  `json:"player_id"`
	Name         string  `json:"Name"`
	Points       float64 `json:"Points"`
	Games        int     `json:"Games"`
	WinRate      float64 `json:"Win Rate"`
	Wins         int     `json:"Wins"`
	Losses       int     `json:"Losses"`
	AvgPointDiff float64 `json:"Avg Pt Diff"`
	ELO          float64 `json:"ELO"`
	SeasonRank   int     `json:"season_rank"`
}
