package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                 sync.Mutex
	sessionsLockedIn   int
	matchesRecorded    int
	jobsEnqueued       int
	jobsCompleted      int
	jobsFailed         int
	recomputeDurations []float64
	startupTime        float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		recomputeDurations: make([]float64, 0),
	}
}

func (m *Mock) IncSessionsLockedIn() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionsLockedIn++
}

func (m *Mock) IncMatchesRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesRecorded++
}

func (m *Mock) IncJobsEnqueued() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobsEnqueued++
}

func (m *Mock) IncJobsCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobsCompleted++
}

func (m *Mock) IncJobsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobsFailed++
}

func (m *Mock) ObserveRecomputeDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recomputeDurations = append(m.recomputeDurations, duration)
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// SessionsLockedIn returns the number of times IncSessionsLockedIn was called.
func (m *Mock) SessionsLockedIn() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionsLockedIn
}

// JobsEnqueued returns the number of times IncJobsEnqueued was called.
func (m *Mock) JobsEnqueued() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jobsEnqueued
}

// JobsCompleted returns the number of times IncJobsCompleted was called.
func (m *Mock) JobsCompleted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jobsCompleted
}

// JobsFailed returns the number of times IncJobsFailed was called.
func (m *Mock) JobsFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jobsFailed
}
