package processor

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/padelops/courtledger/internal/jobs"
	"github.com/padelops/courtledger/internal/ledger"
	"github.com/padelops/courtledger/internal/metrics"
	"github.com/padelops/courtledger/internal/rating"
)

// New creates a new Processor.
func New(leagues LeagueStore, ledgerStore LedgerStore, stats StatsStore, queue jobs.JobStore, metrics metrics.Metrics) *Processor {
	return &Processor{
		leagues: leagues,
		ledger:  ledgerStore,
		stats:   stats,
		queue:   queue,
		metrics: metrics,
	}
}

// LockInSession finalizes a session and enqueues the recomputations its
// matches affect: the global scope always, plus the session's league when it
// has one. It returns the updated session and the ids of the enqueued jobs.
// Lock-in never waits for the recomputation itself.
func (p *Processor) LockInSession(sessionID, updatedBy string) (*ledger.Session, []int64, error) {
	session, err := p.ledger.LockInSession(sessionID, updatedBy)
	if err != nil {
		return nil, nil, err
	}
	p.metrics.IncSessionsLockedIn()
	log.Info("Session locked in", "sessionID", session.ID, "status", session.Status, "updatedBy", updatedBy)

	var jobIDs []int64
	globalID, err := p.queue.Enqueue(jobs.CalcGlobal, "")
	if err != nil {
		return session, nil, fmt.Errorf("failed to enqueue global recalculation: %w", err)
	}
	p.metrics.IncJobsEnqueued()
	jobIDs = append(jobIDs, globalID)

	if session.LeagueID != "" {
		leagueJobID, err := p.queue.Enqueue(jobs.CalcLeague, session.LeagueID)
		if err != nil {
			return session, jobIDs, fmt.Errorf("failed to enqueue league recalculation: %w", err)
		}
		p.metrics.IncJobsEnqueued()
		jobIDs = append(jobIDs, leagueJobID)
	}
	return session, jobIDs, nil
}

// Recalculate executes one claimed job: it replays the eligible match set
// for the job's scope and swaps in the resulting aggregates.
func (p *Processor) Recalculate(job *jobs.Job) error {
	switch job.CalcType {
	case jobs.CalcGlobal:
		return p.recalculateGlobal()
	case jobs.CalcLeague:
		return p.recalculateLeague(job.LeagueID)
	default:
		return fmt.Errorf("unknown calculation type: %s", job.CalcType)
	}
}

func (p *Processor) recalculateGlobal() error {
	matches, err := p.ledger.GetEligibleMatches()
	if err != nil {
		return fmt.Errorf("failed to load eligible matches: %w", err)
	}
	scope := rating.Scope{
		Kind:       rating.ScopeGlobal,
		Scoring:    rating.ScoringPoints,
		PointsWin:  rating.DefaultPointsWin,
		PointsLoss: rating.DefaultPointsLoss,
	}
	snap, err := rating.Compute(scope, matches)
	if err != nil {
		return fmt.Errorf("failed to replay global matches: %w", err)
	}
	if err := p.stats.ReplaceGlobal(snap); err != nil {
		return fmt.Errorf("failed to store global aggregates: %w", err)
	}
	log.Info("Global aggregates rebuilt", "matches", len(matches), "players", len(snap.Players))
	return nil
}

// recalculateLeague rebuilds the league's cross-season aggregates and then
// every season scope inside it, so a single league job leaves the whole
// league consistent.
func (p *Processor) recalculateLeague(leagueID string) error {
	if _, err := p.leagues.GetLeague(leagueID); err != nil {
		return fmt.Errorf("failed to load league %s: %w", leagueID, err)
	}

	matches, err := p.ledger.GetEligibleMatchesForLeague(leagueID)
	if err != nil {
		return fmt.Errorf("failed to load league matches: %w", err)
	}
	scope := rating.Scope{
		Kind:       rating.ScopeLeague,
		LeagueID:   leagueID,
		Scoring:    rating.ScoringPoints,
		PointsWin:  rating.DefaultPointsWin,
		PointsLoss: rating.DefaultPointsLoss,
	}
	snap, err := rating.Compute(scope, matches)
	if err != nil {
		return fmt.Errorf("failed to replay league matches: %w", err)
	}
	if err := p.stats.ReplaceLeague(leagueID, snap); err != nil {
		return fmt.Errorf("failed to store league aggregates: %w", err)
	}
	log.Info("League aggregates rebuilt", "leagueID", leagueID, "matches", len(matches), "players", len(snap.Players))

	seasons, err := p.leagues.GetSeasonsForLeague(leagueID)
	if err != nil {
		return fmt.Errorf("failed to load seasons for league %s: %w", leagueID, err)
	}
	for _, season := range seasons {
		if err := p.recalculateSeason(season.ID, season.Scoring, season.PointsWin, season.PointsLoss); err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) recalculateSeason(seasonID string, scoring rating.ScoringSystem, pointsWin, pointsLoss float64) error {
	matches, err := p.ledger.GetEligibleMatchesForSeason(seasonID)
	if err != nil {
		return fmt.Errorf("failed to load season matches: %w", err)
	}
	scope := rating.Scope{
		Kind:       rating.ScopeSeason,
		SeasonID:   seasonID,
		Scoring:    scoring,
		PointsWin:  pointsWin,
		PointsLoss: pointsLoss,
	}
	snap, err := rating.Compute(scope, matches)
	if err != nil {
		return fmt.Errorf("failed to replay season matches: %w", err)
	}
	if err := p.stats.ReplaceSeason(seasonID, snap); err != nil {
		return fmt.Errorf("failed to store season aggregates: %w", err)
	}
	log.Info("Season aggregates rebuilt", "seasonID", seasonID, "matches", len(matches), "players", len(snap.Players))
	return nil
}

var _ jobs.Recalculator = (*Processor)(nil)
