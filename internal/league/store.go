package league

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/padelops/courtledger/internal/rating"
)

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid input")
)

// New creates a new LeagueStore.
func New(db *sql.DB) LeagueStore {
	return &store{
		db: db,
	}
}

func (s *store) UpsertPlayer(p Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO players (id, name, is_placeholder, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			is_placeholder = excluded.is_placeholder;
	`, p.ID, p.Name, p.IsPlaceholder, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert player: %w", err)
	}
	log.Debug("Upserted player", "playerID", p.ID, "name", p.Name)
	return nil
}

func (s *store) GetPlayer(playerID string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p Player
	err := s.db.QueryRow("SELECT id, name, is_placeholder FROM players WHERE id = ?", playerID).
		Scan(&p.ID, &p.Name, &p.IsPlaceholder)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("player %s: %w", playerID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return &p, nil
}

func (s *store) GetAllPlayers() ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name, is_placeholder FROM players ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.ID, &p.Name, &p.IsPlaceholder); err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, p)
	}
	return players, nil
}

// HasPlaceholder reports whether any of the given players is a placeholder.
func (s *store) HasPlaceholder(playerIDs []string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(playerIDs) == 0 {
		return false, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(playerIDs)), ",")
	query := fmt.Sprintf(
		"SELECT COUNT(*) FROM players WHERE is_placeholder = 1 AND id IN (%s)", placeholders)

	args := make([]any, len(playerIDs))
	for i, id := range playerIDs {
		args[i] = id
	}

	var count int
	if err := s.db.QueryRow(query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check placeholders: %w", err)
	}
	return count > 0, nil
}

func (s *store) CreateLeague(name string) (*League, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := &League{ID: uuid.New().String(), Name: name}
	_, err := s.db.Exec("INSERT INTO leagues (id, name, created_at) VALUES (?, ?, ?)",
		l.ID, l.Name, time.Now().Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to create league: %w", err)
	}
	log.Info("Created league", "leagueID", l.ID, "name", name)
	return l, nil
}

func (s *store) GetLeague(leagueID string) (*League, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var l League
	err := s.db.QueryRow("SELECT id, name FROM leagues WHERE id = ?", leagueID).
		Scan(&l.ID, &l.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("league %s: %w", leagueID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get league: %w", err)
	}
	return &l, nil
}

func (s *store) GetAllLeagues() ([]League, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name FROM leagues ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query leagues: %w", err)
	}
	defer rows.Close()

	var leagues []League
	for rows.Next() {
		var l League
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			log.Error("Failed to scan league row", "error", err)
			continue
		}
		leagues = append(leagues, l)
	}
	return leagues, nil
}

func (s *store) CreateSeason(leagueID, name string, scoring rating.ScoringSystem, pointsWin, pointsLoss float64) (*Season, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch scoring {
	case rating.ScoringPoints, rating.ScoringSeasonRating:
	case "":
		scoring = rating.ScoringPoints
	default:
		return nil, fmt.Errorf("unknown scoring system %s: %w", scoring, ErrInvalid)
	}
	if pointsWin == 0 && pointsLoss == 0 {
		pointsWin = rating.DefaultPointsWin
		pointsLoss = rating.DefaultPointsLoss
	}

	season := &Season{
		ID:         uuid.New().String(),
		LeagueID:   leagueID,
		Name:       name,
		Scoring:    scoring,
		PointsWin:  pointsWin,
		PointsLoss: pointsLoss,
	}
	_, err := s.db.Exec(`
		INSERT INTO seasons (id, league_id, name, scoring_system, points_win, points_loss, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, season.ID, season.LeagueID, season.Name, string(season.Scoring), season.PointsWin, season.PointsLoss, time.Now().Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to create season: %w", err)
	}
	log.Info("Created season", "seasonID", season.ID, "leagueID", leagueID, "scoring", scoring)
	return season, nil
}

func (s *store) GetSeason(seasonID string) (*Season, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	season, err := s.getSeasonLocked(seasonID)
	if err != nil {
		return nil, err
	}
	return season, nil
}

func (s *store) getSeasonLocked(seasonID string) (*Season, error) {
	var season Season
	var scoring string
	err := s.db.QueryRow(`
		SELECT id, league_id, name, scoring_system, points_win, points_loss
		FROM seasons WHERE id = ?
	`, seasonID).Scan(&season.ID, &season.LeagueID, &season.Name, &scoring, &season.PointsWin, &season.PointsLoss)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("season %s: %w", seasonID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get season: %w", err)
	}
	season.Scoring = rating.ScoringSystem(scoring)
	return &season, nil
}

func (s *store) GetSeasonsForLeague(leagueID string) ([]Season, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, league_id, name, scoring_system, points_win, points_loss
		FROM seasons WHERE league_id = ? ORDER BY created_at, id
	`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to query seasons: %w", err)
	}
	defer rows.Close()

	var seasons []Season
	for rows.Next() {
		var season Season
		var scoring string
		if err := rows.Scan(&season.ID, &season.LeagueID, &season.Name, &scoring, &season.PointsWin, &season.PointsLoss); err != nil {
			log.Error("Failed to scan season row", "error", err)
			continue
		}
		season.Scoring = rating.ScoringSystem(scoring)
		seasons = append(seasons, season)
	}
	return seasons, nil
}

// Clear removes all seasons, leagues and players.
func (s *store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, stmt := range []string{"DELETE FROM seasons", "DELETE FROM leagues", "DELETE FROM players"} {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to clear league data: %w", err)
		}
	}
	return nil
}
