package jobs

import (
	"sync"
)

// MockStore is a mock implementation of the JobStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	EnqueueFunc          func(calcType CalcType, leagueID string) (int64, error)
	GetJobFunc           func(jobID int64) (*Job, error)
	GetQueueStatusFunc   func() (*QueueStatus, error)
	ClaimNextPendingFunc func() (*Job, error)
	MarkCompletedFunc    func(jobID int64) error
	MarkFailedFunc       func(jobID int64, message string) error
	ClearFunc func() error

	// Call records
	EnqueueCalls []struct {
		CalcType CalcType
		LeagueID string
	}
	MarkCompletedCalls []int64
	MarkFailedCalls    []struct {
		JobID   int64
		Message string
	}

	nextID int64
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Enqueue(calcType CalcType, leagueID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EnqueueCalls = append(m.EnqueueCalls, struct {
		CalcType CalcType
		LeagueID string
	}{calcType, leagueID})
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(calcType, leagueID)
	}
	m.nextID++
	return m.nextID, nil
}

func (m *MockStore) GetJob(jobID int64) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetJobFunc != nil {
		return m.GetJobFunc(jobID)
	}
	return &Job{ID: jobID, Status: StatusPending}, nil
}

func (m *MockStore) GetQueueStatus() (*QueueStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetQueueStatusFunc != nil {
		return m.GetQueueStatusFunc()
	}
	return &QueueStatus{}, nil
}

func (m *MockStore) ClaimNextPending() (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClaimNextPendingFunc != nil {
		return m.ClaimNextPendingFunc()
	}
	return nil, nil
}

func (m *MockStore) MarkCompleted(jobID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MarkCompletedCalls = append(m.MarkCompletedCalls, jobID)
	if m.MarkCompletedFunc != nil {
		return m.MarkCompletedFunc(jobID)
	}
	return nil
}

func (m *MockStore) MarkFailed(jobID int64, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MarkFailedCalls = append(m.MarkFailedCalls, struct {
		JobID   int64
		Message string
	}{jobID, message})
	if m.MarkFailedFunc != nil {
		return m.MarkFailedFunc(jobID, message)
	}
	return nil
}

func (m *MockStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearFunc != nil {
		return m.ClearFunc()
	}
	return nil
}

var _ JobStore = (*MockStore)(nil)
