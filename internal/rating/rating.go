package rating

import (
	"fmt"
	"math"
	"sort"
)

// Compute replays eligible matches in deterministic order and produces the
// full replacement aggregate set for the scope. Every player's working
// rating starts at InitialRating regardless of any previously stored value:
// this is a rebuild, not an incremental patch.
func Compute(scope Scope, matches []Match) (*Snapshot, error) {
	scope = scope.normalized()

	// Replay order is (session date, match id). Insertion order must never
	// influence the result.
	sorted := make([]Match, len(matches))
	copy(sorted, matches)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date < sorted[j].Date
		}
		return sorted[i].ID < sorted[j].ID
	})

	snap := &Snapshot{
		Players:      make(map[string]*PlayerAggregate),
		Partnerships: make(map[PairKey]*StatLine),
		Opponents:    make(map[PairKey]*StatLine),
	}

	for _, m := range sorted {
		if err := validateMatch(m); err != nil {
			return nil, err
		}
		replayMatch(scope, m, snap)
	}

	finalize(scope, snap)
	return snap, nil
}

// trackRating reports whether this scope maintains a rating trajectory.
// Global scope always does; a season scope only when the season is
// configured for season_rating.
func (s Scope) trackRating() bool {
	if s.Kind == ScopeGlobal {
		return true
	}
	return s.Kind == ScopeSeason && s.Scoring == ScoringSeasonRating
}

func (s Scope) normalized() Scope {
	if s.PointsWin == 0 && s.PointsLoss == 0 {
		s.PointsWin = DefaultPointsWin
		s.PointsLoss = DefaultPointsLoss
	}
	if s.Scoring == "" {
		s.Scoring = ScoringPoints
	}
	return s
}

func validateMatch(m Match) error {
	ids := []string{m.Team1[0], m.Team1[1], m.Team2[0], m.Team2[1]}
	seen := make(map[string]bool, 4)
	for _, id := range ids {
		if id == "" {
			return fmt.Errorf("match %s: dangling player reference", m.ID)
		}
		if seen[id] {
			return fmt.Errorf("match %s: player %s appears more than once", m.ID, id)
		}
		seen[id] = true
	}
	switch m.Winner {
	case 1:
		if m.Score1 <= m.Score2 {
			return fmt.Errorf("match %s: winner 1 disagrees with scores %d-%d", m.ID, m.Score1, m.Score2)
		}
	case 2:
		if m.Score2 <= m.Score1 {
			return fmt.Errorf("match %s: winner 2 disagrees with scores %d-%d", m.ID, m.Score1, m.Score2)
		}
	case -1:
		if m.Score1 != m.Score2 {
			return fmt.Errorf("match %s: tie disagrees with scores %d-%d", m.ID, m.Score1, m.Score2)
		}
	default:
		return fmt.Errorf("match %s: invalid winner %d", m.ID, m.Winner)
	}
	return nil
}

func replayMatch(scope Scope, m Match, snap *Snapshot) {
	p1a, p1b := snap.player(m.Team1[0]), snap.player(m.Team1[1])
	p2a, p2b := snap.player(m.Team2[0]), snap.player(m.Team2[1])

	actual1 := actualScore(m.Winner)
	diff1 := float64(m.Score1 - m.Score2)

	// Overall counters move for every eligible match, ranked or not.
	for _, p := range []*PlayerAggregate{p1a, p1b} {
		recordGame(&p.StatLine, scope, m.Winner == 1, diff1)
	}
	for _, p := range []*PlayerAggregate{p2a, p2b} {
		recordGame(&p.StatLine, scope, m.Winner == 2, -diff1)
	}

	// Rating update is zero-sum: the two teams move by exactly opposite
	// deltas, every player on a team by the same amount. Unranked matches
	// skip the update but still get a zero-change ledger row so the history
	// stays one row per (player, match).
	if scope.trackRating() {
		var delta1 float64
		if m.IsRanked {
			avg1 := (p1a.Rating + p1b.Rating) / 2
			avg2 := (p2a.Rating + p2b.Rating) / 2
			expected1 := 1 / (1 + math.Pow(10, (avg2-avg1)/400))
			delta1 = KFactor * (actual1 - expected1)
		}
		p1a.Rating += delta1
		p1b.Rating += delta1
		p2a.Rating -= delta1
		p2b.Rating -= delta1

		for _, e := range []struct {
			id     string
			p      *PlayerAggregate
			change float64
		}{
			{m.Team1[0], p1a, delta1},
			{m.Team1[1], p1b, delta1},
			{m.Team2[0], p2a, -delta1},
			{m.Team2[1], p2b, -delta1},
		} {
			snap.History = append(snap.History, HistoryEntry{
				PlayerID: e.id,
				MatchID:  m.ID,
				SeasonID: m.SeasonID,
				Date:     m.Date,
				After:    e.p.Rating,
				Change:   e.change,
			})
		}
	}

	// Pairwise aggregates, directional: each partnership row is stored from
	// both players' perspectives, each opponent pair crosses the net.
	recordPair(snap.Partnerships, m.Team1[0], m.Team1[1], scope, m.Winner == 1, diff1)
	recordPair(snap.Partnerships, m.Team1[1], m.Team1[0], scope, m.Winner == 1, diff1)
	recordPair(snap.Partnerships, m.Team2[0], m.Team2[1], scope, m.Winner == 2, -diff1)
	recordPair(snap.Partnerships, m.Team2[1], m.Team2[0], scope, m.Winner == 2, -diff1)

	for _, own := range m.Team1 {
		for _, opp := range m.Team2 {
			recordPair(snap.Opponents, own, opp, scope, m.Winner == 1, diff1)
			recordPair(snap.Opponents, opp, own, scope, m.Winner == 2, -diff1)
		}
	}
}

func actualScore(winner int) float64 {
	switch winner {
	case 1:
		return 1
	case 2:
		return 0
	default:
		return 0.5
	}
}

func recordGame(line *StatLine, scope Scope, won bool, diff float64) {
	line.Games++
	line.diffSum += diff
	if won {
		line.Wins++
	}
	// Under season_rating the points column mirrors the rating and is filled
	// in during finalize; event points would be meaningless there.
	if scope.Kind == ScopeSeason && scope.Scoring == ScoringSeasonRating {
		return
	}
	if won {
		line.Points += scope.PointsWin
	} else {
		// Ties accrue the per-loss value on both sides.
		line.Points += scope.PointsLoss
	}
}

func recordPair(pairs map[PairKey]*StatLine, playerID, otherID string, scope Scope, won bool, diff float64) {
	key := PairKey{PlayerID: playerID, OtherID: otherID}
	line, ok := pairs[key]
	if !ok {
		line = &StatLine{}
		pairs[key] = line
	}
	recordGame(line, scope, won, diff)
}

func (s *Snapshot) player(id string) *PlayerAggregate {
	p, ok := s.Players[id]
	if !ok {
		p = &PlayerAggregate{Rating: InitialRating}
		s.Players[id] = p
	}
	return p
}

func finalize(scope Scope, snap *Snapshot) {
	seasonRating := scope.Kind == ScopeSeason && scope.Scoring == ScoringSeasonRating
	for _, p := range snap.Players {
		finalizeLine(&p.StatLine)
		if seasonRating {
			p.Points = p.Rating
		}
	}
	for _, line := range snap.Partnerships {
		finalizeLine(line)
	}
	for _, line := range snap.Opponents {
		finalizeLine(line)
	}
}

func finalizeLine(line *StatLine) {
	if line.Games > 0 {
		line.WinRate = float64(line.Wins) / float64(line.Games)
		line.AvgPointDiff = line.diffSum / float64(line.Games)
	}
}
