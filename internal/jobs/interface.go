package jobs

// JobStore defines the interface for the calculation job queue.
type JobStore interface {
	// Enqueue validates the scope arguments and inserts a pending job. If a
	// pending job already exists for the same scope its id is returned
	// instead, keeping the queue single-flight per scope. Running jobs are
	// not reused: they may have read their input before the caller's writes
	// committed.
	Enqueue(calcType CalcType, leagueID string) (int64, error)
	// GetJob returns (nil, nil) when no job with that id exists.
	GetJob(jobID int64) (*Job, error)
	GetQueueStatus() (*QueueStatus, error)

	// ClaimNextPending atomically moves the oldest pending job to running.
	// It returns (nil, nil) when the queue is drained.
	ClaimNextPending() (*Job, error)
	MarkCompleted(jobID int64) error
	MarkFailed(jobID int64, message string) error

	// Clear removes all jobs. Test support only.
	Clear() error
}
