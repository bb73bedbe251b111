package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_CreatesTables(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err, "InitDB should not return an error")
	defer teardown()

	tables := []string{
		"players",
		"leagues",
		"seasons",
		"sessions",
		"matches",
		"elo_history",
		"season_rating_history",
		"player_global_stats",
		"player_season_stats",
		"player_league_stats",
		"partnership_stats",
		"opponent_stats",
		"stats_calculation_jobs",
	}

	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "querying for %s table should not produce an error", table)
		assert.Equal(t, table, name)
	}
}

func TestInitDB_IsIdempotent(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	defer teardown()

	// Running the migrations a second time on the same database is a no-op.
	require.NoError(t, migrate(db, "../../migrations"))
}
