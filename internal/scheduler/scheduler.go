package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
)

// jobTimeout bounds a single run of the job.
const jobTimeout = 2 * time.Minute

// Job is the periodic unit of work, typically an import of the holiday year window
// followed by a save.
type Job func(ctx context.Context) error

// Scheduler periodically runs a Job.
type Scheduler struct {
	scheduler *gocron.Scheduler
	job       Job
	interval  time.Duration
	logger    *slog.Logger

	mu      sync.Mutex
	lastRun time.Time
	lastErr error
	runs    int
}

// New creates a new Scheduler. An interval <= 0 disables it: Start becomes a no-op.
func New(interval time.Duration, job Job, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		job:       job,
		interval:  interval,
		logger:    logger,
	}
}

// Enabled reports whether the scheduler has anything to run.
func (s *Scheduler) Enabled() bool {
	return s.interval > 0 && s.job != nil
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	if !s.Enabled() {
		s.logger.Info("scheduler disabled; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(s.RunOnce)
	if err != nil {
		return err
	}

	s.logger.Info("scheduler started", "interval", s.interval.String())
	s.scheduler.StartAsync()
	return nil
}

// RunOnce executes the job synchronously with a fresh run id.
func (s *Scheduler) RunOnce() {
	if s.job == nil {
		return
	}
	runID := uuid.NewString()
	logger := s.logger.With("run_id", runID)
	logger.Info("sync job started")

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	err := s.job(ctx)

	s.mu.Lock()
	s.lastRun = start
	s.lastErr = err
	s.runs++
	s.mu.Unlock()

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			logger.Error("sync job timed out", "timeout", jobTimeout.String())
			return
		}
		logger.Error("sync job failed", "error", err)
		return
	}
	logger.Info("sync job completed", "duration", time.Since(start).String())
}

// Status returns the time of the most recent run, the total run count and the last outcome.
func (s *Scheduler) Status() (lastRun time.Time, runs int, lastErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun, s.runs, s.lastErr
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
