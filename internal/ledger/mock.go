package ledger

import (
	"sync"

	"github.com/padelops/courtledger/internal/rating"
)

// MockStore is a mock implementation of the LedgerStore interface for
// testing. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	GetOrCreateActiveSessionFunc    func(leagueID, seasonID, date string) (*Session, error)
	GetSessionFunc                  func(sessionID string) (*Session, error)
	LockInSessionFunc               func(sessionID, updatedBy string) (*Session, error)
	CreateMatchFunc                 func(m NewMatch) (*Match, error)
	UpdateMatchFunc                 func(matchID string, update MatchUpdate) error
	GetMatchFunc                    func(matchID string) (*Match, error)
	GetMatchesForSessionFunc        func(sessionID string) ([]Match, error)
	GetEligibleMatchesFunc          func() ([]rating.Match, error)
	GetEligibleMatchesForLeagueFunc func(leagueID string) ([]rating.Match, error)
	GetEligibleMatchesForSeasonFunc func(seasonID string) ([]rating.Match, error)
	ClearFunc func() error

	// Call records
	LockInSessionCalls []struct {
		SessionID string
		UpdatedBy string
	}
	CreateMatchCalls                 []NewMatch
	GetEligibleMatchesCalls          int
	GetEligibleMatchesForLeagueCalls []string
	GetEligibleMatchesForSeasonCalls []string
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) GetOrCreateActiveSession(leagueID, seasonID, date string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetOrCreateActiveSessionFunc != nil {
		return m.GetOrCreateActiveSessionFunc(leagueID, seasonID, date)
	}
	return &Session{ID: "mock-session", LeagueID: leagueID, SeasonID: seasonID, Date: date, Status: SessionActive}, nil
}

func (m *MockStore) GetSession(sessionID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(sessionID)
	}
	return &Session{ID: sessionID, Status: SessionActive}, nil
}

func (m *MockStore) LockInSession(sessionID, updatedBy string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LockInSessionCalls = append(m.LockInSessionCalls, struct {
		SessionID string
		UpdatedBy string
	}{sessionID, updatedBy})
	if m.LockInSessionFunc != nil {
		return m.LockInSessionFunc(sessionID, updatedBy)
	}
	return &Session{ID: sessionID, Status: SessionSubmitted, UpdatedBy: updatedBy}, nil
}

func (m *MockStore) CreateMatch(nm NewMatch) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateMatchCalls = append(m.CreateMatchCalls, nm)
	if m.CreateMatchFunc != nil {
		return m.CreateMatchFunc(nm)
	}
	return &Match{ID: "mock-match", SessionID: nm.SessionID}, nil
}

func (m *MockStore) UpdateMatch(matchID string, update MatchUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateMatchFunc != nil {
		return m.UpdateMatchFunc(matchID, update)
	}
	return nil
}

func (m *MockStore) GetMatch(matchID string) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(matchID)
	}
	return &Match{ID: matchID}, nil
}

func (m *MockStore) GetMatchesForSession(sessionID string) ([]Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMatchesForSessionFunc != nil {
		return m.GetMatchesForSessionFunc(sessionID)
	}
	return nil, nil
}

func (m *MockStore) GetEligibleMatches() ([]rating.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetEligibleMatchesCalls++
	if m.GetEligibleMatchesFunc != nil {
		return m.GetEligibleMatchesFunc()
	}
	return nil, nil
}

func (m *MockStore) GetEligibleMatchesForLeague(leagueID string) ([]rating.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetEligibleMatchesForLeagueCalls = append(m.GetEligibleMatchesForLeagueCalls, leagueID)
	if m.GetEligibleMatchesForLeagueFunc != nil {
		return m.GetEligibleMatchesForLeagueFunc(leagueID)
	}
	return nil, nil
}

func (m *MockStore) GetEligibleMatchesForSeason(seasonID string) ([]rating.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetEligibleMatchesForSeasonCalls = append(m.GetEligibleMatchesForSeasonCalls, seasonID)
	if m.GetEligibleMatchesForSeasonFunc != nil {
		return m.GetEligibleMatchesForSeasonFunc(seasonID)
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

var _ LedgerStore = (*MockStore)(nil)
