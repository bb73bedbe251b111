package jobs

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/padelops/courtledger/internal/metrics"
	"github.com/padelops/courtledger/internal/pubsub"
)

// Recalculator executes one claimed job. Implemented by the processor.
type Recalculator interface {
	Recalculate(job *Job) error
}

// Worker drains the queue in FIFO order in the background. Job execution is
// the long-running path and always stays off the request path; callers poll
// job status instead.
type Worker struct {
	store    JobStore
	recalc   Recalculator
	metrics  metrics.Metrics
	events   pubsub.PubSubClient
	interval time.Duration
	kick     chan struct{}
}

// NewWorker creates a worker polling at the given interval. events may be
// nil when no completion event fan-out is configured.
func NewWorker(store JobStore, recalc Recalculator, metricsSvc metrics.Metrics, events pubsub.PubSubClient, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Worker{
		store:    store,
		recalc:   recalc,
		metrics:  metricsSvc,
		events:   events,
		interval: interval,
		kick:     make(chan struct{}, 1),
	}
}

// Kick wakes the worker without waiting for the next poll tick.
func (w *Worker) Kick() {
	select {
	case w.kick <- struct{}{}:
	default:
	}
}

// Start runs the drain loop until ctx is cancelled. A job in flight when
// cancellation arrives finishes first; there is no mid-job cancellation.
func (w *Worker) Start(ctx context.Context) {
	go func() {
		log.Info("Job worker started", "poll_interval", w.interval)
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		w.drain()
		for {
			select {
			case <-ctx.Done():
				log.Info("Job worker stopping")
				return
			case <-ticker.C:
				w.drain()
			case <-w.kick:
				w.drain()
			}
		}
	}()
}

func (w *Worker) drain() {
	for {
		job, err := w.store.ClaimNextPending()
		if err != nil {
			log.Error("Failed to claim pending job", "error", err)
			return
		}
		if job == nil {
			return
		}
		w.run(job)
	}
}

// JobEvent is the completion event published for downstream consumers.
type JobEvent struct {
	JobID    int64  `msgpack:"job_id"`
	CalcType string `msgpack:"calc_type"`
	LeagueID string `msgpack:"league_id"`
	Status   string `msgpack:"status"`
}

func (w *Worker) run(job *Job) {
	start := time.Now()
	err := w.recalc.Recalculate(job)
	duration := time.Since(start)
	w.metrics.ObserveRecomputeDuration(duration.Seconds())

	status := StatusCompleted
	if err != nil {
		status = StatusFailed
		// The failure is recorded, never propagated to whoever enqueued.
		if markErr := w.store.MarkFailed(job.ID, err.Error()); markErr != nil {
			log.Error("Failed to record job failure", "jobID", job.ID, "error", markErr)
		}
		w.metrics.IncJobsFailed()
		log.Error("Recalculation failed", "jobID", job.ID, "calcType", job.CalcType, "error", err, "duration_ms", duration.Milliseconds())
	} else {
		if markErr := w.store.MarkCompleted(job.ID); markErr != nil {
			log.Error("Failed to record job completion", "jobID", job.ID, "error", markErr)
		}
		w.metrics.IncJobsCompleted()
		log.Info("Recalculation finished", "jobID", job.ID, "calcType", job.CalcType, "duration_ms", duration.Milliseconds())
	}

	if w.events != nil {
		event := JobEvent{
			JobID:    job.ID,
			CalcType: string(job.CalcType),
			LeagueID: job.LeagueID,
			Status:   string(status),
		}
		if err := w.events.SendMessage(pubsub.EventStatsRecalculated, event); err != nil {
			log.Error("Failed to publish job event", "jobID", job.ID, "error", err)
		}
	}
}
