package league_test

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padelops/courtledger/internal/database"
	"github.com/padelops/courtledger/internal/league"
	"github.com/padelops/courtledger/internal/rating"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (league.LeagueStore, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	store := league.New(db)
	teardown := func() {
		dbTeardown()
	}

	return store, db, teardown
}

func TestUpsertAndGetPlayers(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.UpsertPlayer(league.Player{ID: "p1", Name: "Player One"}))
	require.NoError(t, store.UpsertPlayer(league.Player{ID: "p2", Name: "Player Two"}))
	require.NoError(t, store.UpsertPlayer(league.Player{ID: "tbd", Name: "TBD", IsPlaceholder: true}))

	// Upsert replaces the name in place.
	require.NoError(t, store.UpsertPlayer(league.Player{ID: "p1", Name: "Renamed"}))

	p, err := store.GetPlayer("p1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", p.Name)
	assert.False(t, p.IsPlaceholder)

	_, err = store.GetPlayer("ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, league.ErrNotFound)

	all, err := store.GetAllPlayers()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestHasPlaceholder(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.UpsertPlayer(league.Player{ID: "p1", Name: "Player One"}))
	require.NoError(t, store.UpsertPlayer(league.Player{ID: "tbd", Name: "TBD", IsPlaceholder: true}))

	found, err := store.HasPlaceholder([]string{"p1"})
	require.NoError(t, err)
	assert.False(t, found)

	found, err = store.HasPlaceholder([]string{"p1", "tbd"})
	require.NoError(t, err)
	assert.True(t, found)
}

func TestCreateAndGetLeagues(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	lg, err := store.CreateLeague("Monday Night")
	require.NoError(t, err)
	assert.NotEmpty(t, lg.ID)

	got, err := store.GetLeague(lg.ID)
	require.NoError(t, err)
	assert.Equal(t, "Monday Night", got.Name)

	_, err = store.GetLeague("ghost")
	assert.ErrorIs(t, err, league.ErrNotFound)

	all, err := store.GetAllLeagues()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreateSeason(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	lg, err := store.CreateLeague("L")
	require.NoError(t, err)

	t.Run("explicit points configuration is kept", func(t *testing.T) {
		season, err := store.CreateSeason(lg.ID, "Spring", rating.ScoringPoints, 2, 0)
		require.NoError(t, err)
		assert.Equal(t, 2.0, season.PointsWin)
		assert.Equal(t, 0.0, season.PointsLoss)
	})

	t.Run("zero points configuration falls back to defaults", func(t *testing.T) {
		season, err := store.CreateSeason(lg.ID, "Summer", rating.ScoringPoints, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, rating.DefaultPointsWin, season.PointsWin)
		assert.Equal(t, rating.DefaultPointsLoss, season.PointsLoss)
	})

	t.Run("season rating scoring is accepted", func(t *testing.T) {
		season, err := store.CreateSeason(lg.ID, "Ladder", rating.ScoringSeasonRating, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, rating.ScoringSeasonRating, season.Scoring)
	})

	t.Run("unknown scoring system is rejected", func(t *testing.T) {
		_, err := store.CreateSeason(lg.ID, "Bad", "golf", 0, 0)
		assert.ErrorIs(t, err, league.ErrInvalid)
	})

	t.Run("unknown league is rejected", func(t *testing.T) {
		_, err := store.CreateSeason("ghost", "S", rating.ScoringPoints, 0, 0)
		require.Error(t, err)
	})

	seasons, err := store.GetSeasonsForLeague(lg.ID)
	require.NoError(t, err)
	assert.Len(t, seasons, 3)

	got, err := store.GetSeason(seasons[0].ID)
	require.NoError(t, err)
	assert.Equal(t, lg.ID, got.LeagueID)
}
