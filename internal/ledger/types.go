package ledger

import (
	"database/sql"
	"sync"
)

// store handles all database operations for sessions and matches.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// SessionStatus is the lifecycle state of a session. ACTIVE sessions collect
// provisional matches; SUBMITTED locks them in; a second lock-in moves the
// session to EDITED as an idempotent resubmit signal.
type SessionStatus string

const (
	SessionActive    SessionStatus = "ACTIVE"
	SessionSubmitted SessionStatus = "SUBMITTED"
	SessionEdited    SessionStatus = "EDITED"
)

// Session is a dated container of matches for one league (and optionally one
// season).
type Session struct {
	ID        string        `json:"id"`
	LeagueID  string        `json:"league_id"`
	SeasonID  string        `json:"season_id,omitempty"`
	Date      string        `json:"session_date"`
	Name      string        `json:"name"`
	Status    SessionStatus `json:"status"`
	CreatedAt int64         `json:"created_at"`
	UpdatedAt int64         `json:"updated_at"`
	UpdatedBy string        `json:"updated_by,omitempty"`
}

// Match is one recorded game result: two teams of two, two scores, and a
// derived winner (1, 2, or -1 for a tie). IsRanked is the effective flag;
// RankedIntent preserves the submitter's original choice independent of
// placeholder substitution.
type Match struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id,omitempty"`
	Team1        [2]string `json:"team1"`
	Team2        [2]string `json:"team2"`
	Score1       int       `json:"score1"`
	Score2       int       `json:"score2"`
	Winner       int       `json:"winner"`
	IsRanked     bool      `json:"is_ranked"`
	RankedIntent bool      `json:"ranked_intent"`
	CreatedAt    int64     `json:"created_at"`
}

// NewMatch is the input for recording a match result.
type NewMatch struct {
	SessionID    string    `json:"session_id"`
	Team1        [2]string `json:"team1"`
	Team2        [2]string `json:"team2"`
	Score1       int       `json:"score1"`
	Score2       int       `json:"score2"`
	RankedIntent bool      `json:"ranked"`
}

// MatchUpdate carries the mutable fields of a match. AdminOverride permits
// edits after the owning session has been locked in.
type MatchUpdate struct {
	Score1        int  `json:"score1"`
	Score2        int  `json:"score2"`
	RankedIntent  bool `json:"ranked"`
	AdminOverride bool `json:"admin_override"`
}
