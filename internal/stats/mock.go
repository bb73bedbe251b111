package stats

import (
	"sync"

	"github.com/padelops/courtledger/internal/rating"
)

// MockStore is a mock implementation of the StatsStore interface for
// testing. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	ReplaceGlobalFunc func(snap *rating.Snapshot) error
	ReplaceSeasonFunc func(seasonID string, snap *rating.Snapshot) error
	ReplaceLeagueFunc func(leagueID string, snap *rating.Snapshot) error
	GetRankingsFunc   func(seasonID, leagueID string) ([]RankingEntry, error)
	ClearFunc func() error

	// Call records
	ReplaceGlobalCalls []*rating.Snapshot
	ReplaceSeasonCalls []struct {
		SeasonID string
		Snap     *rating.Snapshot
	}
	ReplaceLeagueCalls []struct {
		LeagueID string
		Snap     *rating.Snapshot
	}
	GetRankingsCalls []struct {
		SeasonID string
		LeagueID string
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) ReplaceGlobal(snap *rating.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReplaceGlobalCalls = append(m.ReplaceGlobalCalls, snap)
	if m.ReplaceGlobalFunc != nil {
		return m.ReplaceGlobalFunc(snap)
	}
	return nil
}

func (m *MockStore) ReplaceSeason(seasonID string, snap *rating.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReplaceSeasonCalls = append(m.ReplaceSeasonCalls, struct {
		SeasonID string
		Snap     *rating.Snapshot
	}{seasonID, snap})
	if m.ReplaceSeasonFunc != nil {
		return m.ReplaceSeasonFunc(seasonID, snap)
	}
	return nil
}

func (m *MockStore) ReplaceLeague(leagueID string, snap *rating.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReplaceLeagueCalls = append(m.ReplaceLeagueCalls, struct {
		LeagueID string
		Snap     *rating.Snapshot
	}{leagueID, snap})
	if m.ReplaceLeagueFunc != nil {
		return m.ReplaceLeagueFunc(leagueID, snap)
	}
	return nil
}

func (m *MockStore) GetRankings(seasonID, leagueID string) ([]RankingEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetRankingsCalls = append(m.GetRankingsCalls, struct {
		SeasonID string
		LeagueID string
	}{seasonID, leagueID})
	if m.GetRankingsFunc != nil {
		return m.GetRankingsFunc(seasonID, leagueID)
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

var _ StatsStore = (*MockStore)(nil)
