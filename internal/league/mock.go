package league

import (
	"sync"

	"github.com/padelops/courtledger/internal/rating"
)

// MockStore is a mock implementation of the LeagueStore interface for
// testing. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	UpsertPlayerFunc        func(p Player) error
	GetPlayerFunc           func(playerID string) (*Player, error)
	GetAllPlayersFunc       func() ([]Player, error)
	HasPlaceholderFunc      func(playerIDs []string) (bool, error)
	CreateLeagueFunc        func(name string) (*League, error)
	GetLeagueFunc           func(leagueID string) (*League, error)
	GetAllLeaguesFunc       func() ([]League, error)
	CreateSeasonFunc        func(leagueID, name string, scoring rating.ScoringSystem, pointsWin, pointsLoss float64) (*Season, error)
	GetSeasonFunc           func(seasonID string) (*Season, error)
	GetSeasonsForLeagueFunc func(leagueID string) ([]Season, error)
	ClearFunc func() error

	// Call records
	UpsertPlayerCalls        []Player
	GetLeagueCalls           []string
	GetSeasonsForLeagueCalls []string
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) UpsertPlayer(p Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertPlayerCalls = append(m.UpsertPlayerCalls, p)
	if m.UpsertPlayerFunc != nil {
		return m.UpsertPlayerFunc(p)
	}
	return nil
}

func (m *MockStore) GetPlayer(playerID string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(playerID)
	}
	return &Player{ID: playerID}, nil
}

func (m *MockStore) GetAllPlayers() ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllPlayersFunc != nil {
		return m.GetAllPlayersFunc()
	}
	return nil, nil
}

func (m *MockStore) HasPlaceholder(playerIDs []string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.HasPlaceholderFunc != nil {
		return m.HasPlaceholderFunc(playerIDs)
	}
	return false, nil
}

func (m *MockStore) CreateLeague(name string) (*League, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateLeagueFunc != nil {
		return m.CreateLeagueFunc(name)
	}
	return &League{ID: "mock-league", Name: name}, nil
}

func (m *MockStore) GetLeague(leagueID string) (*League, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetLeagueCalls = append(m.GetLeagueCalls, leagueID)
	if m.GetLeagueFunc != nil {
		return m.GetLeagueFunc(leagueID)
	}
	return &League{ID: leagueID}, nil
}

func (m *MockStore) GetAllLeagues() ([]League, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllLeaguesFunc != nil {
		return m.GetAllLeaguesFunc()
	}
	return nil, nil
}

func (m *MockStore) CreateSeason(leagueID, name string, scoring rating.ScoringSystem, pointsWin, pointsLoss float64) (*Season, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateSeasonFunc != nil {
		return m.CreateSeasonFunc(leagueID, name, scoring, pointsWin, pointsLoss)
	}
	return &Season{ID: "mock-season", LeagueID: leagueID, Name: name, Scoring: scoring, PointsWin: pointsWin, PointsLoss: pointsLoss}, nil
}

func (m *MockStore) GetSeason(seasonID string) (*Season, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetSeasonFunc != nil {
		return m.GetSeasonFunc(seasonID)
	}
	return &Season{ID: seasonID}, nil
}

func (m *MockStore) GetSeasonsForLeague(leagueID string) ([]Season, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetSeasonsForLeagueCalls = append(m.GetSeasonsForLeagueCalls, leagueID)
	if m.GetSeasonsForLeagueFunc != nil {
		return m.GetSeasonsForLeagueFunc(leagueID)
	}
	return nil, nil
}

func (m *MockStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearFunc != nil {
		return m.ClearFunc()
	}
	return nil
}

var _ LeagueStore = (*MockStore)(nil)
