package rating_test

import (
	"testing"

	"github.com/padelops/courtledger/internal/rating"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func globalScope() rating.Scope {
	return rating.Scope{Kind: rating.ScopeGlobal}
}

func doubles(id, date string, score1, score2, winner int, ranked bool) rating.Match {
	return rating.Match{
		ID:       id,
		Date:     date,
		Team1:    [2]string{"a", "b"},
		Team2:    [2]string{"c", "d"},
		Score1:   score1,
		Score2:   score2,
		Winner:   winner,
		IsRanked: ranked,
	}
}

func TestCompute_ZeroSumRatingUpdate(t *testing.T) {
	// Team(A,B) beats Team(C,D) 21-15 from equal ratings.
	snap, err := rating.Compute(globalScope(), []rating.Match{
		doubles("m1", "2025-01-01", 21, 15, 1, true),
	})
	require.NoError(t, err)
	require.Len(t, snap.History, 4)

	var sum float64
	for _, entry := range snap.History {
		assert.NotZero(t, entry.Change, "player %s should have moved", entry.PlayerID)
		sum += entry.Change
	}
	assert.InDelta(t, 0.0, sum, 1e-9, "rating updates must be zero-sum")

	assert.Greater(t, snap.Players["a"].Rating, rating.InitialRating)
	assert.Greater(t, snap.Players["b"].Rating, rating.InitialRating)
	assert.Less(t, snap.Players["c"].Rating, rating.InitialRating)
	assert.Less(t, snap.Players["d"].Rating, rating.InitialRating)

	// Equal ratings mean the favourite is a coin flip: K/2 each way.
	assert.InDelta(t, rating.KFactor/2, snap.Players["a"].Rating-rating.InitialRating, 1e-9)
}

func TestCompute_DeterministicUnderInsertionOrder(t *testing.T) {
	matches := []rating.Match{
		doubles("m2", "2025-01-02", 15, 21, 2, true),
		doubles("m1", "2025-01-01", 21, 15, 1, true),
		doubles("m3", "2025-01-02", 21, 21, -1, true),
	}
	reversed := []rating.Match{matches[2], matches[0], matches[1]}

	snapA, err := rating.Compute(globalScope(), matches)
	require.NoError(t, err)
	snapB, err := rating.Compute(globalScope(), reversed)
	require.NoError(t, err)

	assert.Equal(t, snapA.Players, snapB.Players)
	assert.Equal(t, snapA.Partnerships, snapB.Partnerships)
	assert.Equal(t, snapA.Opponents, snapB.Opponents)
	assert.Equal(t, snapA.History, snapB.History)
}

func TestCompute_Idempotent(t *testing.T) {
	matches := []rating.Match{
		doubles("m1", "2025-01-01", 21, 15, 1, true),
		doubles("m2", "2025-01-02", 10, 21, 2, false),
	}
	snapA, err := rating.Compute(globalScope(), matches)
	require.NoError(t, err)
	snapB, err := rating.Compute(globalScope(), matches)
	require.NoError(t, err)
	assert.Equal(t, snapA, snapB)
}

func TestCompute_UnrankedMovesCountersNotRatings(t *testing.T) {
	ranked, err := rating.Compute(globalScope(), []rating.Match{
		doubles("m1", "2025-01-01", 21, 15, 1, true),
	})
	require.NoError(t, err)
	unranked, err := rating.Compute(globalScope(), []rating.Match{
		doubles("m1", "2025-01-01", 21, 15, 1, false),
	})
	require.NoError(t, err)

	// Counters are identical to the ranked run.
	assert.Equal(t, ranked.Players["a"].Games, unranked.Players["a"].Games)
	assert.Equal(t, ranked.Players["a"].Wins, unranked.Players["a"].Wins)
	assert.Equal(t, ranked.Players["a"].Points, unranked.Players["a"].Points)
	assert.Equal(t, ranked.Players["a"].WinRate, unranked.Players["a"].WinRate)
	assert.Equal(t, ranked.Players["a"].AvgPointDiff, unranked.Players["a"].AvgPointDiff)

	// But no rating moves, and the ledger rows carry a zero change.
	for _, id := range []string{"a", "b", "c", "d"} {
		assert.Equal(t, rating.InitialRating, unranked.Players[id].Rating)
	}
	require.Len(t, unranked.History, 4)
	for _, entry := range unranked.History {
		assert.Zero(t, entry.Change)
		assert.Equal(t, rating.InitialRating, entry.After)
	}
}

func TestCompute_PointsSystemIgnoresMargins(t *testing.T) {
	scope := rating.Scope{
		Kind:       rating.ScopeSeason,
		SeasonID:   "s1",
		Scoring:    rating.ScoringPoints,
		PointsWin:  3,
		PointsLoss: 1,
	}
	// A 2-0 record yields 6 points regardless of score margins.
	snap, err := rating.Compute(scope, []rating.Match{
		doubles("m1", "2025-01-01", 21, 1, 1, true),
		doubles("m2", "2025-01-02", 21, 20, 1, true),
	})
	require.NoError(t, err)

	assert.Equal(t, 6.0, snap.Players["a"].Points)
	assert.Equal(t, 2.0, snap.Players["c"].Points)
	assert.Equal(t, 2, snap.Players["a"].Games)
	assert.Equal(t, 2, snap.Players["a"].Wins)
	assert.Equal(t, 1.0, snap.Players["a"].WinRate)

	// No season rating trajectory under points_system.
	assert.Empty(t, snap.History)
}

func TestCompute_SeasonRatingScoring(t *testing.T) {
	scope := rating.Scope{
		Kind:     rating.ScopeSeason,
		SeasonID: "s1",
		Scoring:  rating.ScoringSeasonRating,
	}
	snap, err := rating.Compute(scope, []rating.Match{
		doubles("m1", "2025-01-01", 21, 15, 1, true),
	})
	require.NoError(t, err)

	// Points mirrors the season-local rating trajectory.
	assert.InDelta(t, rating.InitialRating+rating.KFactor/2, snap.Players["a"].Points, 1e-9)
	assert.InDelta(t, rating.InitialRating-rating.KFactor/2, snap.Players["c"].Points, 1e-9)
	require.Len(t, snap.History, 4)
	assert.Equal(t, "s1", scope.SeasonID)
}

func TestCompute_TieSplitsExpectation(t *testing.T) {
	snap, err := rating.Compute(globalScope(), []rating.Match{
		doubles("m1", "2025-01-01", 21, 21, -1, true),
	})
	require.NoError(t, err)

	// Equal teams drawing means nobody moves.
	for _, id := range []string{"a", "b", "c", "d"} {
		assert.InDelta(t, rating.InitialRating, snap.Players[id].Rating, 1e-9)
		assert.Zero(t, snap.Players[id].Wins)
		assert.Equal(t, 1, snap.Players[id].Games)
	}
}

func TestCompute_PairwiseAggregates(t *testing.T) {
	snap, err := rating.Compute(globalScope(), []rating.Match{
		doubles("m1", "2025-01-01", 21, 15, 1, true),
	})
	require.NoError(t, err)

	// Partnerships are stored directionally, both ways.
	ab := snap.Partnerships[rating.PairKey{PlayerID: "a", OtherID: "b"}]
	ba := snap.Partnerships[rating.PairKey{PlayerID: "b", OtherID: "a"}]
	require.NotNil(t, ab)
	require.NotNil(t, ba)
	assert.Equal(t, 1, ab.Wins)
	assert.Equal(t, ab.Games, ba.Games)
	assert.Equal(t, 6.0, ab.AvgPointDiff)

	// Opponent rows cross the net from each player's perspective.
	ac := snap.Opponents[rating.PairKey{PlayerID: "a", OtherID: "c"}]
	ca := snap.Opponents[rating.PairKey{PlayerID: "c", OtherID: "a"}]
	require.NotNil(t, ac)
	require.NotNil(t, ca)
	assert.Equal(t, 1, ac.Wins)
	assert.Equal(t, 0, ca.Wins)
	assert.Equal(t, 6.0, ac.AvgPointDiff)
	assert.Equal(t, -6.0, ca.AvgPointDiff)

	// No same-team opponent rows.
	assert.Nil(t, snap.Opponents[rating.PairKey{PlayerID: "a", OtherID: "b"}])
}

func TestCompute_RejectsInconsistentMatches(t *testing.T) {
	tests := []struct {
		name  string
		match rating.Match
	}{
		{
			name: "dangling player reference",
			match: rating.Match{
				ID: "m1", Date: "2025-01-01",
				Team1: [2]string{"a", ""}, Team2: [2]string{"c", "d"},
				Score1: 21, Score2: 15, Winner: 1,
			},
		},
		{
			name: "duplicate player",
			match: rating.Match{
				ID: "m1", Date: "2025-01-01",
				Team1: [2]string{"a", "b"}, Team2: [2]string{"a", "d"},
				Score1: 21, Score2: 15, Winner: 1,
			},
		},
		{
			name:  "winner disagrees with scores",
			match: doubles("m1", "2025-01-01", 15, 21, 1, true),
		},
		{
			name: "invalid winner value",
			match: rating.Match{
				ID: "m1", Date: "2025-01-01",
				Team1: [2]string{"a", "b"}, Team2: [2]string{"c", "d"},
				Score1: 21, Score2: 15, Winner: 3,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := rating.Compute(globalScope(), []rating.Match{tc.match})
			assert.Error(t, err)
		})
	}
}

func TestCompute_EmptyInput(t *testing.T) {
	snap, err := rating.Compute(globalScope(), nil)
	require.NoError(t, err)
	assert.Empty(t, snap.Players)
	assert.Empty(t, snap.History)
}
