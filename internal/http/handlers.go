package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/padelops/courtledger/internal/jobs"
	"github.com/padelops/courtledger/internal/league"
	"github.com/padelops/courtledger/internal/ledger"
	"github.com/padelops/courtledger/internal/rating"
)

// writeJSON writes v as a JSON response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

// writeError maps store errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ledger.ErrNotFound), errors.Is(err, league.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ledger.ErrSessionLocked):
		status = http.StatusConflict
	case errors.Is(err, ledger.ErrInvalid), errors.Is(err, league.ErrInvalid), errors.Is(err, jobs.ErrInvalid):
		status = http.StatusBadRequest
	}
	http.Error(w, err.Error(), status)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// ClearStoreHandler wipes every store. Exists for test environments; the
// deletion order respects foreign keys.
func (s *Server) ClearStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Received request to clear all stores")
		for _, clear := range []func() error{s.Stats.Clear, s.Jobs.Clear, s.Ledger.Clear, s.Leagues.Clear} {
			if err := clear(); err != nil {
				log.Error("Failed to clear store", "error", err)
				http.Error(w, "Failed to clear store", http.StatusInternalServerError)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Store cleared!")
		log.Info("Store cleared successfully")
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Leagues.GetAllPlayers()
		if err != nil {
			log.Error("Failed to get players", "error", err)
			http.Error(w, "Failed to get players", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func (s *Server) UpsertPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p league.Player
		if !decodeBody(w, r, &p) {
			return
		}
		if p.ID == "" || p.Name == "" {
			http.Error(w, "Player id and name are required", http.StatusBadRequest)
			return
		}
		if err := s.Leagues.UpsertPlayer(p); err != nil {
			log.Error("Failed to upsert player", "error", err, "playerID", p.ID)
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func (s *Server) ListLeaguesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leagues, err := s.Leagues.GetAllLeagues()
		if err != nil {
			log.Error("Failed to get leagues", "error", err)
			http.Error(w, "Failed to get leagues", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, leagues)
	}
}

func (s *Server) CreateLeagueHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name string `json:"name"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if body.Name == "" {
			http.Error(w, "League name is required", http.StatusBadRequest)
			return
		}
		lg, err := s.Leagues.CreateLeague(body.Name)
		if err != nil {
			log.Error("Failed to create league", "error", err)
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, lg)
	}
}

func (s *Server) GetLeagueHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lg, err := s.Leagues.GetLeague(r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, lg)
	}
}

func (s *Server) CreateSeasonHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name       string  `json:"name"`
			Scoring    string  `json:"scoring_system"`
			PointsWin  float64 `json:"points_win"`
			PointsLoss float64 `json:"points_loss"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if body.Name == "" {
			http.Error(w, "Season name is required", http.StatusBadRequest)
			return
		}
		season, err := s.Leagues.CreateSeason(r.PathValue("id"), body.Name, rating.ScoringSystem(body.Scoring), body.PointsWin, body.PointsLoss)
		if err != nil {
			log.Error("Failed to create season", "error", err)
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, season)
	}
}

func (s *Server) ListSeasonsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seasons, err := s.Leagues.GetSeasonsForLeague(r.PathValue("id"))
		if err != nil {
			log.Error("Failed to get seasons", "error", err)
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, seasons)
	}
}

func (s *Server) GetSeasonHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		season, err := s.Leagues.GetSeason(r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, season)
	}
}

// GetOrCreateSessionHandler resolves the active session for a league, season
// and date, creating it when none exists. Safe to call concurrently; all
// callers for the same key get the same session back.
func (s *Server) GetOrCreateSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			LeagueID string `json:"league_id"`
			SeasonID string `json:"season_id"`
			Date     string `json:"session_date"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		session, err := s.Ledger.GetOrCreateActiveSession(body.LeagueID, body.SeasonID, body.Date)
		if err != nil {
			log.Error("Failed to get or create session", "error", err)
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, session)
	}
}

func (s *Server) GetSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := s.Ledger.GetSession(r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, session)
	}
}

func (s *Server) ListSessionMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := s.Ledger.GetMatchesForSession(r.PathValue("id"))
		if err != nil {
			log.Error("Failed to get session matches", "error", err)
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

// LockInSessionHandler finalizes a session and enqueues the affected
// recomputations. It returns immediately; callers poll the returned job ids.
func (s *Server) LockInSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			UpdatedBy string `json:"updated_by"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		session, jobIDs, err := s.Processor.LockInSession(r.PathValue("id"), body.UpdatedBy)
		if err != nil {
			log.Error("Failed to lock in session", "error", err, "sessionID", r.PathValue("id"))
			writeError(w, err)
			return
		}
		if s.Worker != nil {
			s.Worker.Kick()
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"session": session,
			"job_ids": jobIDs,
		})
	}
}

func (s *Server) CreateMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var nm ledger.NewMatch
		if !decodeBody(w, r, &nm) {
			return
		}
		match, err := s.Ledger.CreateMatch(nm)
		if err != nil {
			log.Error("Failed to create match", "error", err)
			writeError(w, err)
			return
		}
		s.Metrics.IncMatchesRecorded()
		writeJSON(w, http.StatusCreated, match)
	}
}

func (s *Server) GetMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		match, err := s.Ledger.GetMatch(r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, match)
	}
}

func (s *Server) UpdateMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update ledger.MatchUpdate
		if !decodeBody(w, r, &update) {
			return
		}
		if err := s.Ledger.UpdateMatch(r.PathValue("id"), update); err != nil {
			log.Error("Failed to update match", "error", err, "matchID", r.PathValue("id"))
			writeError(w, err)
			return
		}
		match, err := s.Ledger.GetMatch(r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, match)
	}
}

// TriggerCalculationHandler enqueues a recomputation directly, without a
// session lock-in.
func (s *Server) TriggerCalculationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		calcType := jobs.CalcType(r.URL.Query().Get("type"))
		if calcType == "" {
			calcType = jobs.CalcGlobal
		}
		leagueID := r.URL.Query().Get("league_id")

		jobID, err := s.Jobs.Enqueue(calcType, leagueID)
		if err != nil {
			log.Error("Failed to enqueue calculation", "error", err, "calcType", calcType)
			writeError(w, err)
			return
		}
		s.Metrics.IncJobsEnqueued()
		if s.Worker != nil {
			s.Worker.Kick()
		}
		log.Info("Calculation enqueued", "jobID", jobID, "calcType", calcType, "leagueID", leagueID)
		writeJSON(w, http.StatusAccepted, map[string]any{"job_id": jobID})
	}
}

func (s *Server) QueueStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := s.Jobs.GetQueueStatus()
		if err != nil {
			log.Error("Failed to get queue status", "error", err)
			http.Error(w, "Failed to get queue status", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, status)
	}
}

func (s *Server) GetJobHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid job id", http.StatusBadRequest)
			return
		}
		job, err := s.Jobs.GetJob(jobID)
		if err != nil {
			log.Error("Failed to get job", "error", err, "jobID", jobID)
			http.Error(w, "Failed to get job", http.StatusInternalServerError)
			return
		}
		if job == nil {
			http.Error(w, "Job not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, job)
	}
}

// RankingsHandler serves the leaderboard for exactly one scope: a season via
// season_id, or a league across seasons via league_id.
func (s *Server) RankingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seasonID := r.URL.Query().Get("season_id")
		leagueID := r.URL.Query().Get("league_id")
		if (seasonID == "") == (leagueID == "") {
			http.Error(w, "Exactly one of season_id or league_id is required", http.StatusBadRequest)
			return
		}
		rankings, err := s.Stats.GetRankings(seasonID, leagueID)
		if err != nil {
			log.Error("Failed to get rankings", "error", err, "seasonID", seasonID, "leagueID", leagueID)
			http.Error(w, "Failed to get rankings", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, rankings)
	}
}
