package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TimerScheduler is an in-process ReminderScheduler backed by one
// time.Timer per job. Handles are random UUID strings. Jobs fire on their
// own goroutine; the scheduler keeps no history of fired jobs.
type TimerScheduler struct {
	job    JobFunc
	logger *slog.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
	wg     sync.WaitGroup
	closed bool
}

// Ensure TimerScheduler implements the ReminderScheduler interface
var _ ReminderScheduler = (*TimerScheduler)(nil)

// NewTimerScheduler creates a TimerScheduler that invokes job for every
// fired reminder. If logger is nil, a default logger is used.
func NewTimerScheduler(job JobFunc, logger *slog.Logger) *TimerScheduler {
	if logger == nil {
		logger = slog.Default()
	}

	return &TimerScheduler{
		job:    job,
		logger: logger.With("component", "timer_scheduler"),
		timers: make(map[string]*time.Timer),
	}
}

// Schedule implements ReminderScheduler.Schedule.
// A fire time in the past fires the job immediately.
func (s *TimerScheduler) Schedule(ctx context.Context, payload []byte, fireAt time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", &SchedulingError{Operation: "schedule", Err: ErrSchedulerClosed}
	}

	jobID := uuid.New().String()
	delay := time.Until(fireAt)
	if delay < 0 {
		delay = 0
	}

	s.wg.Add(1)
	s.timers[jobID] = time.AfterFunc(delay, func() {
		defer s.wg.Done()

		s.mu.Lock()
		delete(s.timers, jobID)
		s.mu.Unlock()

		s.logger.Debug("job fired", "job_id", jobID)
		s.job(context.Background(), payload)
	})

	s.logger.Debug("job scheduled",
		"job_id", jobID,
		"fire_at", fireAt,
		"delay", delay)
	return jobID, nil
}

// Cancel implements ReminderScheduler.Cancel.
func (s *TimerScheduler) Cancel(ctx context.Context, jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer, ok := s.timers[jobID]
	if !ok {
		// Unknown or already fired; nothing to revoke.
		s.logger.Debug("cancel of unknown job", "job_id", jobID)
		return nil
	}

	if timer.Stop() {
		// The timer never fired, so its goroutine will not run.
		s.wg.Done()
	}
	delete(s.timers, jobID)

	s.logger.Debug("job cancelled", "job_id", jobID)
	return nil
}

// Stop cancels all outstanding jobs and waits for in-flight job callbacks
// to finish. The scheduler accepts no new jobs afterwards.
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true

	for jobID, timer := range s.timers {
		if timer.Stop() {
			s.wg.Done()
		}
		delete(s.timers, jobID)
	}
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

// Pending returns the number of jobs currently waiting to fire.
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
