package stats

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/padelops/courtledger/internal/rating"
)

// New creates a new StatsStore.
func New(db *sql.DB) StatsStore {
	return &store{
		db: db,
	}
}

func sortedPlayerIDs(snap *rating.Snapshot) []string {
	ids := make([]string, 0, len(snap.Players))
	for id := range snap.Players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedPairKeys(pairs map[rating.PairKey]*rating.StatLine) []rating.PairKey {
	keys := make([]rating.PairKey, 0, len(pairs))
	for key := range pairs {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].PlayerID != keys[j].PlayerID {
			return keys[i].PlayerID < keys[j].PlayerID
		}
		return keys[i].OtherID < keys[j].OtherID
	})
	return keys
}

// ReplaceGlobal swaps the entire global aggregate set, including the full
// ELO ledger and every player's current_rating, in one transaction.
func (s *store) ReplaceGlobal(snap *rating.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin global replace: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"elo_history", "player_global_stats", "partnership_stats", "opponent_stats"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, entry := range snap.History {
		_, err := tx.Exec(`
			INSERT INTO elo_history (player_id, match_id, match_date, elo_after, elo_change)
			VALUES (?, ?, ?, ?, ?)
		`, entry.PlayerID, entry.MatchID, entry.Date, entry.After, entry.Change)
		if err != nil {
			return fmt.Errorf("failed to insert elo history row: %w", err)
		}
	}

	for _, id := range sortedPlayerIDs(snap) {
		p := snap.Players[id]
		_, err := tx.Exec(`
			INSERT INTO player_global_stats (player_id, games, wins, points, win_rate, avg_point_diff, current_rating)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, id, p.Games, p.Wins, p.Points, p.WinRate, p.AvgPointDiff, p.Rating)
		if err != nil {
			return fmt.Errorf("failed to insert global player stats: %w", err)
		}
	}

	if err := insertPairs(tx, "partnership_stats", "partner_id", "", "", snap.Partnerships); err != nil {
		return err
	}
	if err := insertPairs(tx, "opponent_stats", "opponent_id", "", "", snap.Opponents); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit global replace: %w", err)
	}
	log.Info("Replaced global aggregates", "players", len(snap.Players), "ledger_rows", len(snap.History))
	return nil
}

// ReplaceSeason swaps every aggregate row scoped to one season, including
// the season rating ledger when the season tracks one.
func (s *store) ReplaceSeason(seasonID string, snap *rating.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin season replace: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"season_rating_history", "player_season_stats", "partnership_season_stats", "opponent_season_stats"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE season_id = ?", seasonID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, entry := range snap.History {
		_, err := tx.Exec(`
			INSERT INTO season_rating_history (player_id, season_id, match_id, match_date, rating_after, rating_change)
			VALUES (?, ?, ?, ?, ?, ?)
		`, entry.PlayerID, seasonID, entry.MatchID, entry.Date, entry.After, entry.Change)
		if err != nil {
			return fmt.Errorf("failed to insert season rating row: %w", err)
		}
	}

	for _, id := range sortedPlayerIDs(snap) {
		p := snap.Players[id]
		_, err := tx.Exec(`
			INSERT INTO player_season_stats (player_id, season_id, games, wins, points, win_rate, avg_point_diff)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, id, seasonID, p.Games, p.Wins, p.Points, p.WinRate, p.AvgPointDiff)
		if err != nil {
			return fmt.Errorf("failed to insert season player stats: %w", err)
		}
	}

	if err := insertPairs(tx, "partnership_season_stats", "partner_id", "season_id", seasonID, snap.Partnerships); err != nil {
		return err
	}
	if err := insertPairs(tx, "opponent_season_stats", "opponent_id", "season_id", seasonID, snap.Opponents); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit season replace: %w", err)
	}
	log.Info("Replaced season aggregates", "seasonID", seasonID, "players", len(snap.Players))
	return nil
}

// ReplaceLeague swaps the league-across-seasons aggregates. No rating ledger
// exists at this scope; ratings are a global signal.
func (s *store) ReplaceLeague(leagueID string, snap *rating.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin league replace: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"player_league_stats", "partnership_league_stats", "opponent_league_stats"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE league_id = ?", leagueID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, id := range sortedPlayerIDs(snap) {
		p := snap.Players[id]
		_, err := tx.Exec(`
			INSERT INTO player_league_stats (player_id, league_id, games, wins, points, win_rate, avg_point_diff)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, id, leagueID, p.Games, p.Wins, p.Points, p.WinRate, p.AvgPointDiff)
		if err != nil {
			return fmt.Errorf("failed to insert league player stats: %w", err)
		}
	}

	if err := insertPairs(tx, "partnership_league_stats", "partner_id", "league_id", leagueID, snap.Partnerships); err != nil {
		return err
	}
	if err := insertPairs(tx, "opponent_league_stats", "opponent_id", "league_id", leagueID, snap.Opponents); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit league replace: %w", err)
	}
	log.Info("Replaced league aggregates", "leagueID", leagueID, "players", len(snap.Players))
	return nil
}

func insertPairs(tx *sql.Tx, table, otherCol, scopeCol, scopeID string, pairs map[rating.PairKey]*rating.StatLine) error {
	var query string
	if scopeCol == "" {
		query = fmt.Sprintf(`
			INSERT INTO %s (player_id, %s, games, wins, points, win_rate, avg_point_diff)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, table, otherCol)
	} else {
		query = fmt.Sprintf(`
			INSERT INTO %s (player_id, %s, %s, games, wins, points, win_rate, avg_point_diff)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, table, otherCol, scopeCol)
	}

	for _, key := range sortedPairKeys(pairs) {
		line := pairs[key]
		args := []any{key.PlayerID, key.OtherID}
		if scopeCol != "" {
			args = append(args, scopeID)
		}
		args = append(args, line.Games, line.Wins, line.Points, line.WinRate, line.AvgPointDiff)
		if _, err := tx.Exec(query, args...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}
	return nil
}

// GetRankings reads one scope's leaderboard. A single season orders by
// points first (the competitive signal within one season); a league across
// seasons orders by wins first, because points are not comparable across
// seasons with different scoring systems. Players with zero games and zero
// points are excluded. An empty, never-computed scope yields an empty list.
func (s *store) GetRankings(seasonID, leagueID string) ([]RankingEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var query string
	var arg string
	switch {
	case seasonID != "":
		query = `
			SELECT ps.player_id, p.name, ps.points, ps.games, ps.win_rate, ps.wins, ps.avg_point_diff,
				COALESCE(gs.current_rating, 1200)
			FROM player_season_stats ps
			JOIN players p ON p.id = ps.player_id
			LEFT JOIN player_global_stats gs ON gs.player_id = ps.player_id
			WHERE ps.season_id = ? AND NOT (ps.games = 0 AND ps.points = 0)
			ORDER BY ps.points DESC, ps.avg_point_diff DESC, ps.win_rate DESC, COALESCE(gs.current_rating, 1200) DESC
		`
		arg = seasonID
	case leagueID != "":
		query = `
			SELECT ps.player_id, p.name, ps.points, ps.games, ps.win_rate, ps.wins, ps.avg_point_diff,
				COALESCE(gs.current_rating, 1200)
			FROM player_league_stats ps
			JOIN players p ON p.id = ps.player_id
			LEFT JOIN player_global_stats gs ON gs.player_id = ps.player_id
			WHERE ps.league_id = ? AND NOT (ps.games = 0 AND ps.points = 0)
			ORDER BY ps.wins DESC, ps.win_rate DESC, ps.avg_point_diff DESC, COALESCE(gs.current_rating, 1200) DESC
		`
		arg = leagueID
	default:
		return nil, fmt.Errorf("either a season id or a league id is required")
	}

	rows, err := s.db.Query(query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query rankings: %w", err)
	}
	defer rows.Close()

	var rankings []RankingEntry
	for rows.Next() {
		var e RankingEntry
		if err := rows.Scan(&e.PlayerID, &e.Name, &e.Points, &e.Games, &e.WinRate, &e.Wins, &e.AvgPointDiff, &e.ELO); err != nil {
			return nil, fmt.Errorf("failed to scan ranking row: %w", err)
		}
		e.Losses = e.Games - e.Wins
		e.SeasonRank = len(rankings) + 1
		rankings = append(rankings, e)
	}
	return rankings, nil
}

// Clear removes every aggregate and history row across all scopes.
func (s *store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tables := []string{
		"elo_history", "season_rating_history",
		"player_global_stats", "player_season_stats", "player_league_stats",
		"partnership_stats", "partnership_season_stats", "partnership_league_stats",
		"opponent_stats", "opponent_season_stats", "opponent_league_stats",
	}
	for _, table := range tables {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}
