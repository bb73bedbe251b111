package rating

// ScoringSystem controls what the points column means for a season.
type ScoringSystem string

const (
	// ScoringPoints accumulates fixed per-win/per-loss event points.
	ScoringPoints ScoringSystem = "points_system"
	// ScoringSeasonRating tracks a season-local rating trajectory instead.
	ScoringSeasonRating ScoringSystem = "season_rating"
)

// ScopeKind is the aggregation granularity of one recomputation.
type ScopeKind string

const (
	ScopeGlobal ScopeKind = "global"
	ScopeSeason ScopeKind = "season"
	ScopeLeague ScopeKind = "league"
)

const (
	// InitialRating is every player's working rating at the start of a replay.
	InitialRating = 1200.0
	// KFactor controls how much a single game shifts a rating.
	KFactor = 32.0

	DefaultPointsWin  = 3.0
	DefaultPointsLoss = 1.0
)

// Scope describes one recomputation target. Global and league scopes always
// use the default event point deltas; season scopes carry the season's
// configured scoring system.
type Scope struct {
	Kind       ScopeKind
	SeasonID   string
	LeagueID   string
	Scoring    ScoringSystem
	PointsWin  float64
	PointsLoss float64
}

// Match is the algorithm's view of one eligible match. Matches must be fed
// in replay order (session date, then match id); Compute sorts defensively.
type Match struct {
	ID       string
	Date     string
	SeasonID string
	Team1    [2]string
	Team2    [2]string
	Score1   int
	Score2   int
	Winner   int // 1, 2, or -1 for a tie
	IsRanked bool
}

// StatLine holds the counters shared by every aggregate row.
type StatLine struct {
	Games        int
	Wins         int
	Points       float64
	WinRate      float64
	AvgPointDiff float64

	diffSum float64
}

// PlayerAggregate is one player's full result for a scope.
type PlayerAggregate struct {
	StatLine
	Rating float64
}

// PairKey identifies a directional pairwise aggregate from PlayerID's
// perspective.
type PairKey struct {
	PlayerID string
	OtherID  string
}

// HistoryEntry is one rating ledger row: the player's rating after a match
// and how much that match moved it. Unranked matches emit a zero-change row.
type HistoryEntry struct {
	PlayerID string
	MatchID  string
	SeasonID string
	Date     string
	After    float64
	Change   float64
}

// Snapshot is the full replacement aggregate set for one scope.
type Snapshot struct {
	Players      map[string]*PlayerAggregate
	Partnerships map[PairKey]*StatLine
	Opponents    map[PairKey]*StatLine
	History      []HistoryEntry
}
