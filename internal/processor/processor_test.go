package processor_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padelops/courtledger/internal/jobs"
	"github.com/padelops/courtledger/internal/league"
	"github.com/padelops/courtledger/internal/ledger"
	"github.com/padelops/courtledger/internal/metrics"
	"github.com/padelops/courtledger/internal/processor"
	"github.com/padelops/courtledger/internal/rating"
	"github.com/padelops/courtledger/internal/stats"
)

func newTestProcessor() (*processor.Processor, *league.MockStore, *ledger.MockStore, *stats.MockStore, *jobs.MockStore, *metrics.Mock) {
	leagues := league.NewMock()
	ledgerStore := ledger.NewMock()
	statsStore := stats.NewMock()
	queue := jobs.NewMock()
	metr := metrics.NewMock()
	p := processor.New(leagues, ledgerStore, statsStore, queue, metr)
	return p, leagues, ledgerStore, statsStore, queue, metr
}

func TestProcessor_LockInSession(t *testing.T) {
	t.Run("league session enqueues global and league jobs", func(t *testing.T) {
		p, _, ledgerStore, _, queue, metr := newTestProcessor()
		ledgerStore.LockInSessionFunc = func(sessionID, updatedBy string) (*ledger.Session, error) {
			return &ledger.Session{ID: sessionID, LeagueID: "l1", Status: ledger.SessionSubmitted, UpdatedBy: updatedBy}, nil
		}

		session, jobIDs, err := p.LockInSession("s1", "admin")
		require.NoError(t, err)
		assert.Equal(t, ledger.SessionSubmitted, session.Status)
		require.Len(t, jobIDs, 2)

		require.Len(t, queue.EnqueueCalls, 2)
		assert.Equal(t, jobs.CalcGlobal, queue.EnqueueCalls[0].CalcType)
		assert.Equal(t, jobs.CalcLeague, queue.EnqueueCalls[1].CalcType)
		assert.Equal(t, "l1", queue.EnqueueCalls[1].LeagueID)
		assert.Equal(t, 1, metr.SessionsLockedIn())
		assert.Equal(t, 2, metr.JobsEnqueued())
	})

	t.Run("session without a league only enqueues the global job", func(t *testing.T) {
		p, _, ledgerStore, _, queue, _ := newTestProcessor()
		ledgerStore.LockInSessionFunc = func(sessionID, updatedBy string) (*ledger.Session, error) {
			return &ledger.Session{ID: sessionID, Status: ledger.SessionSubmitted}, nil
		}

		_, jobIDs, err := p.LockInSession("s1", "admin")
		require.NoError(t, err)
		require.Len(t, jobIDs, 1)
		require.Len(t, queue.EnqueueCalls, 1)
		assert.Equal(t, jobs.CalcGlobal, queue.EnqueueCalls[0].CalcType)
	})

	t.Run("lock-in failure enqueues nothing", func(t *testing.T) {
		p, _, ledgerStore, _, queue, metr := newTestProcessor()
		ledgerStore.LockInSessionFunc = func(sessionID, updatedBy string) (*ledger.Session, error) {
			return nil, errors.New("session not found")
		}

		_, _, err := p.LockInSession("missing", "admin")
		require.Error(t, err)
		assert.Empty(t, queue.EnqueueCalls)
		assert.Equal(t, 0, metr.SessionsLockedIn())
	})
}

func TestProcessor_Recalculate(t *testing.T) {
	m := func(id string, date string, t1a, t1b, t2a, t2b string, s1, s2 int) rating.Match {
		winner := 1
		if s2 > s1 {
			winner = 2
		} else if s1 == s2 {
			winner = -1
		}
		return rating.Match{
			ID: id, Date: date,
			Team1: [2]string{t1a, t1b}, Team2: [2]string{t2a, t2b},
			Score1: s1, Score2: s2, Winner: winner, IsRanked: true,
		}
	}

	t.Run("global job replays all eligible matches into the global snapshot", func(t *testing.T) {
		p, _, ledgerStore, statsStore, _, _ := newTestProcessor()
		ledgerStore.GetEligibleMatchesFunc = func() ([]rating.Match, error) {
			return []rating.Match{m("m1", "2026-01-10", "a", "b", "c", "d", 6, 3)}, nil
		}

		err := p.Recalculate(&jobs.Job{ID: 1, CalcType: jobs.CalcGlobal})
		require.NoError(t, err)
		require.Len(t, statsStore.ReplaceGlobalCalls, 1)
		snap := statsStore.ReplaceGlobalCalls[0]
		require.Len(t, snap.Players, 4)
		winner := snap.Players["a"]
		assert.Greater(t, winner.Rating, rating.InitialRating)
		assert.Equal(t, rating.DefaultPointsWin, winner.Points)
	})

	t.Run("league job rebuilds the league scope and every season in it", func(t *testing.T) {
		p, leagues, ledgerStore, statsStore, _, _ := newTestProcessor()
		leagues.GetSeasonsForLeagueFunc = func(leagueID string) ([]league.Season, error) {
			return []league.Season{
				{ID: "sea1", LeagueID: leagueID, Scoring: rating.ScoringPoints, PointsWin: 3, PointsLoss: 1},
				{ID: "sea2", LeagueID: leagueID, Scoring: rating.ScoringSeasonRating},
			}, nil
		}
		ledgerStore.GetEligibleMatchesForLeagueFunc = func(leagueID string) ([]rating.Match, error) {
			return []rating.Match{m("m1", "2026-01-10", "a", "b", "c", "d", 6, 3)}, nil
		}
		ledgerStore.GetEligibleMatchesForSeasonFunc = func(seasonID string) ([]rating.Match, error) {
			if seasonID == "sea1" {
				return []rating.Match{m("m1", "2026-01-10", "a", "b", "c", "d", 6, 3)}, nil
			}
			return nil, nil
		}

		err := p.Recalculate(&jobs.Job{ID: 2, CalcType: jobs.CalcLeague, LeagueID: "l1"})
		require.NoError(t, err)

		require.Len(t, statsStore.ReplaceLeagueCalls, 1)
		assert.Equal(t, "l1", statsStore.ReplaceLeagueCalls[0].LeagueID)
		require.Len(t, statsStore.ReplaceSeasonCalls, 2)
		assert.Equal(t, "sea1", statsStore.ReplaceSeasonCalls[0].SeasonID)
		assert.Equal(t, "sea2", statsStore.ReplaceSeasonCalls[1].SeasonID)
		// Season without matches still gets its snapshot replaced, clearing
		// any stale aggregates.
		assert.Empty(t, statsStore.ReplaceSeasonCalls[1].Snap.Players)
	})

	t.Run("empty eligible set clears the snapshot rather than failing", func(t *testing.T) {
		p, _, _, statsStore, _, _ := newTestProcessor()

		err := p.Recalculate(&jobs.Job{ID: 3, CalcType: jobs.CalcGlobal})
		require.NoError(t, err)
		require.Len(t, statsStore.ReplaceGlobalCalls, 1)
		assert.Empty(t, statsStore.ReplaceGlobalCalls[0].Players)
	})

	t.Run("store failure surfaces as a job error", func(t *testing.T) {
		p, _, _, statsStore, _, _ := newTestProcessor()
		statsStore.ReplaceGlobalFunc = func(snap *rating.Snapshot) error {
			return errors.New("disk full")
		}

		err := p.Recalculate(&jobs.Job{ID: 4, CalcType: jobs.CalcGlobal})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})

	t.Run("unknown calculation type is rejected", func(t *testing.T) {
		p, _, _, _, _, _ := newTestProcessor()
		err := p.Recalculate(&jobs.Job{ID: 5, CalcType: "bogus"})
		require.Error(t, err)
	})
}
