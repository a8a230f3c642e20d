package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/wonny/aistocks/pkg/logger"
)

// Scheduler manages scheduled jobs
// ⭐ SSOT: periodic work is scheduled only here
type Scheduler struct {
	cron    *cron.Cron
	logger  *logger.Logger
	jobs    map[string]*entry
	mu      sync.RWMutex
	ctx     context.Context
	cancel  context.CancelFunc
	running sync.WaitGroup

	// Retry configuration
	maxRetries int
	retryDelay time.Duration
}

type entry struct {
	job     Job
	id      cron.EntryID
	history *JobHistory
	busy    sync.Mutex // one run of a job at a time
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithRetry sets how often a failed run is retried and the delay between attempts
func WithRetry(maxRetries int, delay time.Duration) Option {
	return func(s *Scheduler) {
		s.maxRetries = maxRetries
		s.retryDelay = delay
	}
}

// New creates a new scheduler
func New(log *logger.Logger, opts ...Option) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:       cron.New(cron.WithSeconds()),
		logger:     log.WithField("module", "scheduler"),
		jobs:       make(map[string]*entry),
		ctx:        ctx,
		cancel:     cancel,
		maxRetries: 3,
		retryDelay: 1 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddJob adds a job to the scheduler
func (s *Scheduler) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobName := job.Name()
	if _, exists := s.jobs[jobName]; exists {
		return fmt.Errorf("job %s already exists", jobName)
	}

	e := &entry{job: job, history: &JobHistory{}}
	id, err := s.cron.AddFunc(job.Schedule(), func() {
		s.runJob(e)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", jobName, err)
	}
	e.id = id
	s.jobs[jobName] = e

	s.logger.WithFields(map[string]interface{}{
		"job":      jobName,
		"schedule": job.Schedule(),
	}).Info("Job added to scheduler")

	return nil
}

// RemoveJob unschedules a job and drops its history
func (s *Scheduler) RemoveJob(jobName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.jobs[jobName]
	if !exists {
		return fmt.Errorf("job %s not found", jobName)
	}

	s.cron.Remove(e.id)
	delete(s.jobs, jobName)
	s.logger.WithField("job", jobName).Info("Job removed from scheduler")

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.logger.Info("Starting scheduler")
	s.cron.Start()
}

// Stop stops scheduling, cancels running jobs and waits for them to return
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	ctx := s.cron.Stop()
	s.cancel()
	<-ctx.Done()
	s.running.Wait()
	s.logger.Info("Scheduler stopped")
}

// ErrJobBusy is returned by RunJobOnce while another run of the job is in progress
var ErrJobBusy = errors.New("job is already running")

// RunJob runs a job immediately with retries and returns its result
func (s *Scheduler) RunJob(jobName string) (JobResult, error) {
	e, err := s.lookup(jobName)
	if err != nil {
		return JobResult{}, err
	}
	return s.runJob(e), nil
}

// RunJobOnce makes a single attempt under ctx and records it in the job history.
// It does not wait for a run already in progress.
func (s *Scheduler) RunJobOnce(ctx context.Context, jobName string) (JobResult, error) {
	e, err := s.lookup(jobName)
	if err != nil {
		return JobResult{}, err
	}

	s.running.Add(1)
	defer s.running.Done()

	if !e.busy.TryLock() {
		return JobResult{}, fmt.Errorf("%s: %w", jobName, ErrJobBusy)
	}
	defer e.busy.Unlock()

	return s.execute(ctx, e, 0), nil
}

func (s *Scheduler) lookup(jobName string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.jobs[jobName]
	if !exists {
		return nil, fmt.Errorf("job %s not found", jobName)
	}
	return e, nil
}

// runJob executes a scheduled job with retry logic
func (s *Scheduler) runJob(e *entry) JobResult {
	s.running.Add(1)
	defer s.running.Done()

	e.busy.Lock()
	defer e.busy.Unlock()

	return s.execute(s.ctx, e, s.maxRetries)
}

// execute runs up to maxRetries+1 attempts and records the result.
// The caller holds e.busy.
func (s *Scheduler) execute(ctx context.Context, e *entry, maxRetries int) JobResult {
	jobName := e.job.Name()
	startTime := time.Now()
	s.logger.WithField("job", jobName).Info("Job started")

	var lastErr error
	attempts := 0
	for attempt := 0; attempt <= maxRetries; attempt++ {
		attempts++
		lastErr = e.job.Run(ctx)
		if lastErr == nil {
			break
		}

		s.logger.WithError(lastErr).WithFields(map[string]interface{}{
			"job":     jobName,
			"attempt": attempt + 1,
		}).Warn("Job execution failed")

		if attempt == maxRetries || !s.wait(ctx) {
			break
		}
	}

	endTime := time.Now()
	result := JobResult{
		JobName:   jobName,
		StartTime: startTime,
		EndTime:   endTime,
		Duration:  endTime.Sub(startTime),
		Attempts:  attempts,
		Success:   lastErr == nil,
	}
	if lastErr != nil {
		result.Error = lastErr.Error()
	}

	s.mu.Lock()
	e.history.AddResult(result)
	s.mu.Unlock()

	log := s.logger.WithFields(map[string]interface{}{
		"job":      jobName,
		"duration": result.Duration.String(),
		"attempts": attempts,
	})
	if result.Success {
		log.Info("Job completed successfully")
	} else {
		log.WithError(lastErr).Error("Job failed")
	}

	return result
}

// wait sleeps for the retry delay; false means ctx is done
func (s *Scheduler) wait(ctx context.Context) bool {
	timer := time.NewTimer(s.retryDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// JobHistory returns a copy of the history of a job
func (s *Scheduler) JobHistory(jobName string) ([]JobResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.jobs[jobName]
	if !exists {
		return nil, fmt.Errorf("job %s not found", jobName)
	}
	return e.history.Latest(historyLimit), nil
}

// Jobs returns the registered job names, sorted
func (s *Scheduler) Jobs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// JobStats represents statistics for a job
type JobStats struct {
	JobName      string     `json:"job_name"`
	Schedule     string     `json:"schedule"`
	TotalRuns    int        `json:"total_runs"`
	SuccessCount int        `json:"success_count"`
	FailureCount int        `json:"failure_count"`
	SuccessRate  float64    `json:"success_rate"`
	LastRun      *time.Time `json:"last_run,omitempty"`
	LastSuccess  *time.Time `json:"last_success,omitempty"`
	LastFailure  *time.Time `json:"last_failure,omitempty"`
	NextRun      *time.Time `json:"next_run,omitempty"`
}

// Stats returns statistics for all jobs
func (s *Scheduler) Stats() map[string]JobStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[string]JobStats, len(s.jobs))
	for name, e := range s.jobs {
		h := e.history
		failures := h.FailureCount()
		st := JobStats{
			JobName:      name,
			Schedule:     e.job.Schedule(),
			TotalRuns:    len(h.Results),
			SuccessCount: len(h.Results) - failures,
			FailureCount: failures,
			SuccessRate:  h.SuccessRate(),
		}

		for i := range h.Results {
			r := h.Results[i]
			st.LastRun = &r.StartTime
			if r.Success {
				st.LastSuccess = &r.StartTime
			} else {
				st.LastFailure = &r.StartTime
			}
		}

		if next := s.cron.Entry(e.id).Next; !next.IsZero() {
			st.NextRun = &next
		}

		stats[name] = st
	}
	return stats
}
