package stats_test

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padelops/courtledger/internal/database"
	"github.com/padelops/courtledger/internal/league"
	"github.com/padelops/courtledger/internal/rating"
	"github.com/padelops/courtledger/internal/stats"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (stats.StatsStore, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	store := stats.New(db)
	teardown := func() {
		dbTeardown()
	}

	return store, db, teardown
}

func seedPlayers(t *testing.T, db *sql.DB, ids ...string) {
	t.Helper()
	leagues := league.New(db)
	for _, id := range ids {
		require.NoError(t, leagues.UpsertPlayer(league.Player{ID: id, Name: "Player " + id}))
	}
}

// seedLeague inserts a league and its seasons with fixed ids so snapshot rows
// referencing them satisfy the schema's foreign keys.
func seedLeague(t *testing.T, db *sql.DB, leagueID string, seasonIDs ...string) {
	t.Helper()
	_, err := db.Exec("INSERT INTO leagues (id, name) VALUES (?, ?)", leagueID, "League "+leagueID)
	require.NoError(t, err)
	for _, id := range seasonIDs {
		_, err := db.Exec("INSERT INTO seasons (id, league_id, name) VALUES (?, ?, ?)", id, leagueID, "Season "+id)
		require.NoError(t, err)
	}
}

// seedMatches inserts session-less match rows so history rows can reference
// them. The scores mirror the snapshot fixtures but only the ids matter here.
func seedMatches(t *testing.T, db *sql.DB, ids ...string) {
	t.Helper()
	for _, id := range ids {
		_, err := db.Exec(`
			INSERT INTO matches (id, team1_player1, team1_player2, team2_player1, team2_player2, score1, score2, winner)
			VALUES (?, 'a', 'b', 'c', 'd', 6, 3, 1)
		`, id)
		require.NoError(t, err)
	}
}

// snapshotFor replays one 6-3 win for (a,b) over (c,d) under the given scope.
func snapshotFor(t *testing.T, scope rating.Scope) *rating.Snapshot {
	t.Helper()
	snap, err := rating.Compute(scope, []rating.Match{{
		ID: "m1", Date: "2026-01-10",
		Team1: [2]string{"a", "b"}, Team2: [2]string{"c", "d"},
		Score1: 6, Score2: 3, Winner: 1, IsRanked: true,
	}})
	require.NoError(t, err)
	return snap
}

func TestReplaceGlobalAndSeasonRankings(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()
	seedPlayers(t, db, "a", "b", "c", "d")
	seedLeague(t, db, "l1", "s1")
	seedMatches(t, db, "m1")

	globalScope := rating.Scope{Kind: rating.ScopeGlobal, Scoring: rating.ScoringPoints, PointsWin: 3, PointsLoss: 1}
	require.NoError(t, store.ReplaceGlobal(snapshotFor(t, globalScope)))

	seasonScope := rating.Scope{Kind: rating.ScopeSeason, SeasonID: "s1", Scoring: rating.ScoringPoints, PointsWin: 3, PointsLoss: 1}
	require.NoError(t, store.ReplaceSeason("s1", snapshotFor(t, seasonScope)))

	rankings, err := store.GetRankings("s1", "")
	require.NoError(t, err)
	require.Len(t, rankings, 4)

	// Winners first under the points policy, ranks 1-based.
	assert.Equal(t, 3.0, rankings[0].Points)
	assert.Equal(t, 1, rankings[0].SeasonRank)
	assert.Equal(t, 1.0, rankings[2].Points)
	assert.Equal(t, 4, rankings[3].SeasonRank)
	assert.Equal(t, 1, rankings[3].Losses)

	// ELO column reflects the globally computed current rating.
	assert.Greater(t, rankings[0].ELO, rating.InitialRating)
	assert.Less(t, rankings[3].ELO, rating.InitialRating)
}

func TestReplaceSeasonIsScoped(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()
	seedPlayers(t, db, "a", "b", "c", "d")
	seedLeague(t, db, "l1", "s1", "s2")
	seedMatches(t, db, "m1")

	scope := func(seasonID string) rating.Scope {
		return rating.Scope{Kind: rating.ScopeSeason, SeasonID: seasonID, Scoring: rating.ScoringPoints, PointsWin: 3, PointsLoss: 1}
	}
	require.NoError(t, store.ReplaceSeason("s1", snapshotFor(t, scope("s1"))))
	require.NoError(t, store.ReplaceSeason("s2", snapshotFor(t, scope("s2"))))

	// Replacing one season with an empty snapshot leaves the other intact.
	empty, err := rating.Compute(scope("s1"), nil)
	require.NoError(t, err)
	require.NoError(t, store.ReplaceSeason("s1", empty))

	rankings, err := store.GetRankings("s1", "")
	require.NoError(t, err)
	assert.Empty(t, rankings)

	rankings, err = store.GetRankings("s2", "")
	require.NoError(t, err)
	assert.Len(t, rankings, 4)
}

func TestReplaceGlobalIsIdempotent(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()
	seedPlayers(t, db, "a", "b", "c", "d")
	seedMatches(t, db, "m1")

	scope := rating.Scope{Kind: rating.ScopeGlobal, Scoring: rating.ScoringPoints, PointsWin: 3, PointsLoss: 1}
	require.NoError(t, store.ReplaceGlobal(snapshotFor(t, scope)))
	require.NoError(t, store.ReplaceGlobal(snapshotFor(t, scope)))

	var ledgerRows int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM elo_history").Scan(&ledgerRows))
	assert.Equal(t, 4, ledgerRows, "one ledger row per player per match, not doubled")

	var pairRows int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM partnership_stats").Scan(&pairRows))
	assert.Equal(t, 4, pairRows, "directional partnership rows, not doubled")
}

func TestLeagueRankingsOrderByWins(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()
	seedPlayers(t, db, "a", "b", "c", "d")
	seedLeague(t, db, "l1")
	seedMatches(t, db, "m1", "m2")

	scope := rating.Scope{Kind: rating.ScopeLeague, LeagueID: "l1", Scoring: rating.ScoringPoints, PointsWin: 3, PointsLoss: 1}
	snap, err := rating.Compute(scope, []rating.Match{
		{ID: "m1", Date: "2026-01-10", Team1: [2]string{"a", "b"}, Team2: [2]string{"c", "d"}, Score1: 6, Score2: 3, Winner: 1, IsRanked: true},
		{ID: "m2", Date: "2026-01-17", Team1: [2]string{"a", "c"}, Team2: [2]string{"b", "d"}, Score1: 6, Score2: 2, Winner: 1, IsRanked: true},
	})
	require.NoError(t, err)
	require.NoError(t, store.ReplaceLeague("l1", snap))

	rankings, err := store.GetRankings("", "l1")
	require.NoError(t, err)
	require.Len(t, rankings, 4)
	assert.Equal(t, "a", rankings[0].PlayerID, "two wins ranks first")
	assert.Equal(t, 2, rankings[0].Wins)
	assert.Equal(t, "d", rankings[3].PlayerID, "two losses ranks last")
}

func TestGetRankingsEmptyScope(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	rankings, err := store.GetRankings("never-computed", "")
	require.NoError(t, err)
	assert.Empty(t, rankings)

	_, err = store.GetRankings("", "")
	require.Error(t, err)
}
