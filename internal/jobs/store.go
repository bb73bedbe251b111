package jobs

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

var ErrInvalid = errors.New("invalid input")

// NewStore creates a new JobStore.
func NewStore(db *sql.DB) JobStore {
	return &store{
		db: db,
	}
}

func (s *store) Enqueue(calcType CalcType, leagueID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch calcType {
	case CalcGlobal:
		leagueID = ""
	case CalcLeague:
		if leagueID == "" {
			return 0, fmt.Errorf("league job requires a league id: %w", ErrInvalid)
		}
		var exists bool
		if err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM leagues WHERE id = ?)", leagueID).Scan(&exists); err != nil {
			return 0, fmt.Errorf("failed to resolve league: %w", err)
		}
		if !exists {
			return 0, fmt.Errorf("league not found %s: %w", leagueID, ErrInvalid)
		}
	default:
		return 0, fmt.Errorf("unknown calc type %s: %w", calcType, ErrInvalid)
	}

	// Single-flight per scope, pending jobs only: a pending job has not read
	// its eligible set yet, so it already covers this request. A running job
	// may have read the set before the caller's writes committed, and a job
	// stranded in running by a crash must not block the scope, so both get a
	// fresh pending job behind them.
	var existing int64
	err := s.db.QueryRow(`
		SELECT id FROM stats_calculation_jobs
		WHERE calc_type = ? AND COALESCE(league_id, '') = ? AND status = ?
		ORDER BY id LIMIT 1
	`, string(calcType), leagueID, string(StatusPending)).Scan(&existing)
	if err == nil {
		log.Debug("Reusing pending job for scope", "jobID", existing, "calcType", calcType, "leagueID", leagueID)
		return existing, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to check for existing job: %w", err)
	}

	var leagueVal any
	if leagueID != "" {
		leagueVal = leagueID
	}
	res, err := s.db.Exec(`
		INSERT INTO stats_calculation_jobs (calc_type, league_id, status, created_at)
		VALUES (?, ?, ?, ?)
	`, string(calcType), leagueVal, string(StatusPending), time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to enqueue job: %w", err)
	}
	jobID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read job id: %w", err)
	}

	log.Info("Enqueued calculation job", "jobID", jobID, "calcType", calcType, "leagueID", leagueID)
	return jobID, nil
}

const jobColumns = `id, calc_type, COALESCE(league_id, ''), status, created_at, started_at, completed_at, COALESCE(error_message, '')`

func scanJob(scanner interface{ Scan(...any) error }) (*Job, error) {
	var job Job
	var calcType, status string
	err := scanner.Scan(
		&job.ID, &calcType, &job.LeagueID, &status,
		&job.CreatedAt, &job.StartedAt, &job.CompletedAt, &job.ErrorMessage,
	)
	if err != nil {
		return nil, err
	}
	job.CalcType = CalcType(calcType)
	job.Status = JobStatus(status)
	return &job, nil
}

func (s *store) GetJob(jobID int64) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow("SELECT "+jobColumns+" FROM stats_calculation_jobs WHERE id = ?", jobID)
	job, err := scanJob(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

func (s *store) GetQueueStatus() (*QueueStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := &QueueStatus{}

	running, err := s.queryJobs(
		"SELECT "+jobColumns+" FROM stats_calculation_jobs WHERE status = ? ORDER BY id", string(StatusRunning))
	if err != nil {
		return nil, err
	}
	status.Running = running

	pending, err := s.queryJobs(
		"SELECT "+jobColumns+" FROM stats_calculation_jobs WHERE status = ? ORDER BY id", string(StatusPending))
	if err != nil {
		return nil, err
	}
	status.Pending = pending

	recent, err := s.queryJobs(`
		SELECT `+jobColumns+` FROM stats_calculation_jobs
		WHERE status IN (?, ?) ORDER BY completed_at DESC, id DESC LIMIT 20
	`, string(StatusCompleted), string(StatusFailed))
	if err != nil {
		return nil, err
	}
	status.Recent = recent

	return status, nil
}

func (s *store) queryJobs(query string, args ...any) ([]Job, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	jobs := []Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			log.Error("Failed to scan job row", "error", err)
			continue
		}
		jobs = append(jobs, *job)
	}
	return jobs, nil
}

// ClaimNextPending picks the oldest pending job and moves it to running with
// a compare-and-set, so a concurrent claimer can never run the same job.
func (s *store) ClaimNextPending() (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		row := s.db.QueryRow(
			"SELECT " + jobColumns + " FROM stats_calculation_jobs WHERE status = 'pending' ORDER BY id LIMIT 1")
		job, err := scanJob(row)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to find pending job: %w", err)
		}

		now := time.Now().Unix()
		res, err := s.db.Exec(
			"UPDATE stats_calculation_jobs SET status = ?, started_at = ? WHERE id = ? AND status = ?",
			string(StatusRunning), now, job.ID, string(StatusPending))
		if err != nil {
			return nil, fmt.Errorf("failed to claim job: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to read claim result: %w", err)
		}
		if affected == 0 {
			// Lost the race for this job; try the next one.
			continue
		}

		job.Status = StatusRunning
		job.StartedAt = &now
		log.Info("Claimed job", "jobID", job.ID, "calcType", job.CalcType, "leagueID", job.LeagueID)
		return job, nil
	}
}

func (s *store) MarkCompleted(jobID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"UPDATE stats_calculation_jobs SET status = ?, completed_at = ? WHERE id = ?",
		string(StatusCompleted), time.Now().Unix(), jobID)
	if err != nil {
		return fmt.Errorf("failed to mark job completed: %w", err)
	}
	log.Info("Job completed", "jobID", jobID)
	return nil
}

func (s *store) MarkFailed(jobID int64, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"UPDATE stats_calculation_jobs SET status = ?, completed_at = ?, error_message = ? WHERE id = ?",
		string(StatusFailed), time.Now().Unix(), message, jobID)
	if err != nil {
		return fmt.Errorf("failed to mark job failed: %w", err)
	}
	log.Warn("Job failed", "jobID", jobID, "error", message)
	return nil
}

// Clear removes all jobs, including the terminal audit trail.
func (s *store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec("DELETE FROM stats_calculation_jobs"); err != nil {
		return fmt.Errorf("failed to clear jobs: %w", err)
	}
	return nil
}
