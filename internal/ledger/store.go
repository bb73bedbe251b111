package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/padelops/courtledger/internal/rating"
)

// Sentinel errors for callers that need to distinguish failure classes.
var (
	ErrNotFound      = errors.New("not found")
	ErrSessionLocked = errors.New("session is locked in")
	ErrInvalid       = errors.New("invalid input")
)

// New creates a new LedgerStore.
func New(db *sql.DB) LedgerStore {
	return &store{
		db: db,
	}
}

type querier interface {
	QueryRow(query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
}

// GetOrCreateActiveSession returns the ACTIVE session for (league, season,
// date), creating it if none exists. A row-level lock is attempted first so
// two racing submissions resolve to the same session; if the driver rejects
// the locked read, a best-effort unlocked re-read runs before inserting.
// The residual race window of the fallback is a documented trade-off.
func (s *store) GetOrCreateActiveSession(leagueID, seasonID, date string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if leagueID == "" || date == "" {
		return nil, fmt.Errorf("league id and date are required: %w", ErrInvalid)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin session transaction: %w", err)
	}

	sess, lookupErr := findActiveSession(tx, leagueID, seasonID, date, true)
	if lookupErr != nil {
		tx.Rollback()
		// SQLite rejects FOR UPDATE, so this is the normal path there.
		log.Debug("Locked session lookup failed, retrying without row lock", "error", lookupErr)
		sess, err = findActiveSession(s.db, leagueID, seasonID, date, false)
		if err != nil {
			return nil, err
		}
		if sess != nil {
			return sess, nil
		}
		return insertActiveSession(s.db, leagueID, seasonID, date)
	}

	if sess != nil {
		tx.Commit()
		return sess, nil
	}

	sess, err = insertActiveSession(tx, leagueID, seasonID, date)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit session creation: %w", err)
	}
	return sess, nil
}

func seasonCond(seasonID string) (string, []any) {
	if seasonID == "" {
		return "season_id IS NULL", nil
	}
	return "season_id = ?", []any{seasonID}
}

func findActiveSession(q querier, leagueID, seasonID, date string, locked bool) (*Session, error) {
	cond, condArgs := seasonCond(seasonID)
	query := fmt.Sprintf(`
		SELECT id, league_id, COALESCE(season_id, ''), session_date, name, status, created_at, updated_at, COALESCE(updated_by, '')
		FROM sessions
		WHERE league_id = ? AND %s AND session_date = ? AND status = ?
	`, cond)
	if locked {
		query += " FOR UPDATE"
	}

	args := append([]any{leagueID}, condArgs...)
	args = append(args, date, string(SessionActive))

	var sess Session
	var status string
	err := q.QueryRow(query, args...).Scan(
		&sess.ID, &sess.LeagueID, &sess.SeasonID, &sess.Date, &sess.Name,
		&status, &sess.CreatedAt, &sess.UpdatedAt, &sess.UpdatedBy,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	sess.Status = SessionStatus(status)
	return &sess, nil
}

// insertActiveSession creates a new ACTIVE session with a sequential name:
// the first session of the day is named by date alone, later ones get a
// "Session #N" suffix.
func insertActiveSession(q querier, leagueID, seasonID, date string) (*Session, error) {
	cond, condArgs := seasonCond(seasonID)
	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM sessions WHERE league_id = ? AND %s AND session_date = ?", cond)
	args := append([]any{leagueID}, condArgs...)
	args = append(args, date)

	var existing int
	if err := q.QueryRow(countQuery, args...).Scan(&existing); err != nil {
		return nil, fmt.Errorf("failed to count sessions for naming: %w", err)
	}

	name := date
	if existing > 0 {
		name = fmt.Sprintf("%s Session #%d", date, existing+1)
	}

	now := time.Now().Unix()
	sess := &Session{
		ID:        uuid.New().String(),
		LeagueID:  leagueID,
		SeasonID:  seasonID,
		Date:      date,
		Name:      name,
		Status:    SessionActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var seasonVal any
	if seasonID != "" {
		seasonVal = seasonID
	}
	_, err := q.Exec(`
		INSERT INTO sessions (id, league_id, season_id, session_date, name, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, sess.ID, leagueID, seasonVal, date, name, string(SessionActive), now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}

	log.Info("Created session", "sessionID", sess.ID, "leagueID", leagueID, "date", date, "name", name)
	return sess, nil
}

func (s *store) GetSession(sessionID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getSession(s.db, sessionID)
}

func getSession(q querier, sessionID string) (*Session, error) {
	var sess Session
	var status string
	err := q.QueryRow(`
		SELECT id, league_id, COALESCE(season_id, ''), session_date, name, status, created_at, updated_at, COALESCE(updated_by, '')
		FROM sessions WHERE id = ?
	`, sessionID).Scan(
		&sess.ID, &sess.LeagueID, &sess.SeasonID, &sess.Date, &sess.Name,
		&status, &sess.CreatedAt, &sess.UpdatedAt, &sess.UpdatedBy,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	sess.Status = SessionStatus(status)
	return &sess, nil
}

// LockInSession applies the lock-in transition: ACTIVE goes to SUBMITTED, a
// repeated lock-in from SUBMITTED or EDITED goes to EDITED.
func (s *store) LockInSession(sessionID, updatedBy string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin lock-in transaction: %w", err)
	}
	defer tx.Rollback()

	sess, err := getSession(tx, sessionID)
	if err != nil {
		return nil, err
	}

	var next SessionStatus
	switch sess.Status {
	case SessionActive:
		next = SessionSubmitted
	case SessionSubmitted, SessionEdited:
		next = SessionEdited
	default:
		return nil, fmt.Errorf("session %s has unknown status %s", sessionID, sess.Status)
	}

	now := time.Now().Unix()
	_, err = tx.Exec("UPDATE sessions SET status = ?, updated_at = ?, updated_by = ? WHERE id = ?",
		string(next), now, updatedBy, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to update session status: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit lock-in: %w", err)
	}

	log.Info("Locked in session", "sessionID", sessionID, "from", sess.Status, "to", next, "by", updatedBy)
	sess.Status = next
	sess.UpdatedAt = now
	sess.UpdatedBy = updatedBy
	return sess, nil
}

func deriveWinner(score1, score2 int) int {
	switch {
	case score1 > score2:
		return 1
	case score2 > score1:
		return 2
	default:
		return -1
	}
}

// CreateMatch records a result into its session. The effective is_ranked
// flag drops to false when any participant is a placeholder player; the
// submitter's intent is preserved separately.
func (s *store) CreateMatch(m NewMatch) (*Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	players := []string{m.Team1[0], m.Team1[1], m.Team2[0], m.Team2[1]}
	seen := make(map[string]bool, 4)
	for _, id := range players {
		if id == "" {
			return nil, fmt.Errorf("all four player references are required: %w", ErrInvalid)
		}
		if seen[id] {
			return nil, fmt.Errorf("player %s appears more than once: %w", id, ErrInvalid)
		}
		seen[id] = true
	}
	if m.Score1 < 0 || m.Score2 < 0 {
		return nil, fmt.Errorf("scores must be non-negative: %w", ErrInvalid)
	}

	var sessionVal any
	if m.SessionID != "" {
		sess, err := getSession(s.db, m.SessionID)
		if err != nil {
			return nil, err
		}
		if sess.Status != SessionActive {
			return nil, fmt.Errorf("session %s is %s; matches can only be added while ACTIVE: %w", m.SessionID, sess.Status, ErrSessionLocked)
		}
		sessionVal = m.SessionID
	}

	hasPlaceholder, err := s.hasPlaceholderLocked(players)
	if err != nil {
		return nil, err
	}

	match := &Match{
		ID:           uuid.New().String(),
		SessionID:    m.SessionID,
		Team1:        m.Team1,
		Team2:        m.Team2,
		Score1:       m.Score1,
		Score2:       m.Score2,
		Winner:       deriveWinner(m.Score1, m.Score2),
		IsRanked:     m.RankedIntent && !hasPlaceholder,
		RankedIntent: m.RankedIntent,
		CreatedAt:    time.Now().Unix(),
	}

	_, err = s.db.Exec(`
		INSERT INTO matches (id, session_id, team1_player1, team1_player2, team2_player1, team2_player2,
			score1, score2, winner, is_ranked, ranked_intent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, match.ID, sessionVal, match.Team1[0], match.Team1[1], match.Team2[0], match.Team2[1],
		match.Score1, match.Score2, match.Winner, match.IsRanked, match.RankedIntent, match.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert match: %w", err)
	}

	log.Info("Recorded match", "matchID", match.ID, "sessionID", m.SessionID, "score", fmt.Sprintf("%d-%d", m.Score1, m.Score2), "ranked", match.IsRanked)
	return match, nil
}

func (s *store) hasPlaceholderLocked(playerIDs []string) (bool, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM players
		WHERE is_placeholder = 1 AND id IN (?, ?, ?, ?)
	`, playerIDs[0], playerIDs[1], playerIDs[2], playerIDs[3]).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check placeholder players: %w", err)
	}
	return count > 0, nil
}

// UpdateMatch mutates a match's scores and ranked intent. Allowed only while
// the owning session is ACTIVE, or under admin override while it is
// SUBMITTED/EDITED (a resubmit must follow for aggregates to catch up).
func (s *store) UpdateMatch(matchID string, update MatchUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	match, err := s.getMatchLocked(matchID)
	if err != nil {
		return err
	}

	if match.SessionID != "" {
		sess, err := getSession(s.db, match.SessionID)
		if err != nil {
			return err
		}
		switch sess.Status {
		case SessionActive:
		case SessionSubmitted, SessionEdited:
			if !update.AdminOverride {
				return fmt.Errorf("session %s is %s; match edits require admin override: %w", sess.ID, sess.Status, ErrSessionLocked)
			}
		default:
			return fmt.Errorf("session %s has unknown status %s", sess.ID, sess.Status)
		}
	}

	if update.Score1 < 0 || update.Score2 < 0 {
		return fmt.Errorf("scores must be non-negative: %w", ErrInvalid)
	}

	players := []string{match.Team1[0], match.Team1[1], match.Team2[0], match.Team2[1]}
	hasPlaceholder, err := s.hasPlaceholderLocked(players)
	if err != nil {
		return err
	}

	isRanked := update.RankedIntent && !hasPlaceholder
	_, err = s.db.Exec(`
		UPDATE matches SET score1 = ?, score2 = ?, winner = ?, is_ranked = ?, ranked_intent = ?
		WHERE id = ?
	`, update.Score1, update.Score2, deriveWinner(update.Score1, update.Score2), isRanked, update.RankedIntent, matchID)
	if err != nil {
		return fmt.Errorf("failed to update match: %w", err)
	}

	log.Info("Updated match", "matchID", matchID, "score", fmt.Sprintf("%d-%d", update.Score1, update.Score2), "override", update.AdminOverride)
	return nil
}

func (s *store) GetMatch(matchID string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getMatchLocked(matchID)
}

func (s *store) getMatchLocked(matchID string) (*Match, error) {
	var m Match
	err := s.db.QueryRow(`
		SELECT id, COALESCE(session_id, ''), team1_player1, team1_player2, team2_player1, team2_player2,
			score1, score2, winner, is_ranked, ranked_intent, created_at
		FROM matches WHERE id = ?
	`, matchID).Scan(
		&m.ID, &m.SessionID, &m.Team1[0], &m.Team1[1], &m.Team2[0], &m.Team2[1],
		&m.Score1, &m.Score2, &m.Winner, &m.IsRanked, &m.RankedIntent, &m.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("match %s: %w", matchID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return &m, nil
}

func (s *store) GetMatchesForSession(sessionID string) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, COALESCE(session_id, ''), team1_player1, team1_player2, team2_player1, team2_player2,
			score1, score2, winner, is_ranked, ranked_intent, created_at
		FROM matches WHERE session_id = ? ORDER BY id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query session matches: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(
			&m.ID, &m.SessionID, &m.Team1[0], &m.Team1[1], &m.Team2[0], &m.Team2[1],
			&m.Score1, &m.Score2, &m.Winner, &m.IsRanked, &m.RankedIntent, &m.CreatedAt,
		); err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// eligibleBase selects matches from SUBMITTED/EDITED sessions (or with no
// session at all) in replay order. ACTIVE-session matches are provisional
// and excluded.
const eligibleBase = `
	SELECT m.id,
		COALESCE(s.session_date, date(m.created_at, 'unixepoch')) AS match_date,
		COALESCE(s.season_id, ''),
		m.team1_player1, m.team1_player2, m.team2_player1, m.team2_player2,
		m.score1, m.score2, m.winner, m.is_ranked
	FROM matches m
	LEFT JOIN sessions s ON m.session_id = s.id
	WHERE (m.session_id IS NULL OR s.status IN ('SUBMITTED', 'EDITED'))
`

const eligibleOrder = " ORDER BY match_date, m.id"

func (s *store) GetEligibleMatches() ([]rating.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryEligible(eligibleBase + eligibleOrder)
}

func (s *store) GetEligibleMatchesForLeague(leagueID string) ([]rating.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryEligible(eligibleBase+" AND s.league_id = ?"+eligibleOrder, leagueID)
}

func (s *store) GetEligibleMatchesForSeason(seasonID string) ([]rating.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryEligible(eligibleBase+" AND s.season_id = ?"+eligibleOrder, seasonID)
}

func (s *store) queryEligible(query string, args ...any) ([]rating.Match, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query eligible matches: %w", err)
	}
	defer rows.Close()

	var matches []rating.Match
	for rows.Next() {
		var m rating.Match
		if err := rows.Scan(
			&m.ID, &m.Date, &m.SeasonID,
			&m.Team1[0], &m.Team1[1], &m.Team2[0], &m.Team2[1],
			&m.Score1, &m.Score2, &m.Winner, &m.IsRanked,
		); err != nil {
			return nil, fmt.Errorf("failed to scan eligible match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// Clear removes all matches and sessions.
func (s *store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, stmt := range []string{"DELETE FROM matches", "DELETE FROM sessions"} {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to clear ledger: %w", err)
		}
	}
	return nil
}
