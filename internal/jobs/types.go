package jobs

import (
	"database/sql"
	"sync"
)

// store handles database operations for the calculation job queue.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// CalcType is the scope of one recomputation job.
type CalcType string

const (
	CalcGlobal CalcType = "global"
	CalcLeague CalcType = "league"
)

// JobStatus transitions one-directionally:
// pending -> running -> completed | failed. There are no automatic retries;
// a failed job requires a fresh enqueue.
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job is one recomputation request. Jobs are never deleted; terminal rows
// form the audit trail.
type Job struct {
	ID           int64     `json:"id"`
	CalcType     CalcType  `json:"calc_type"`
	LeagueID     string    `json:"league_id,omitempty"`
	Status       JobStatus `json:"status"`
	CreatedAt    int64     `json:"created_at"`
	StartedAt    *int64    `json:"started_at,omitempty"`
	CompletedAt  *int64    `json:"completed_at,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// QueueStatus is the observability view of the queue: currently running and
// pending jobs plus recent terminal history.
type QueueStatus struct {
	Running []Job `json:"running"`
	Pending []Job `json:"pending"`
	Recent  []Job `json:"recent"`
}
