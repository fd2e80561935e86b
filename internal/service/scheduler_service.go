package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jmhodges/clock"
	"github.com/robfig/cron/v3"

	"notekeeper/internal/model"
	"notekeeper/internal/repository"
)

// DispatchFunc is invoked for each claimed timer.
type DispatchFunc func(ctx context.Context, noteID string) error

// SchedulerService keeps one-shot reminder timers in the database and
// polls them on a cron tick. Timers survive restarts; a timer that was
// due while the process was down is handled by the startup sweep, not
// here.
type SchedulerService struct {
	jobs     *repository.JobRepository
	dispatch DispatchFunc
	lookback time.Duration
	clk      clock.Clock
	cron     *cron.Cron
}

func NewSchedulerService(jobs *repository.JobRepository, dispatch DispatchFunc, lookback time.Duration, clk clock.Clock) *SchedulerService {
	if lookback <= 0 {
		lookback = 24 * time.Hour
	}
	return &SchedulerService{
		jobs:     jobs,
		dispatch: dispatch,
		lookback: lookback,
		clk:      clk,
		cron:     cron.New(cron.WithLocation(time.UTC), cron.WithSeconds()),
	}
}

// Schedule arms a timer for the note. Scheduling again for the same note
// supersedes the previous timer. A due time in the past is accepted and
// fires on the next tick.
func (s *SchedulerService) Schedule(ctx context.Context, noteID string, dueAt time.Time) error {
	return s.jobs.Schedule(ctx, model.ReminderJobKey(noteID), noteID, dueAt)
}

// Cancel removes the note's pending timer if any.
func (s *SchedulerService) Cancel(ctx context.Context, noteID string) error {
	return s.jobs.Cancel(ctx, model.ReminderJobKey(noteID))
}

// Start begins polling for due timers every interval.
func (s *SchedulerService) Start(interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	seconds := int(interval.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	spec := fmt.Sprintf("@every %ds", seconds)
	if _, err := s.cron.AddFunc(spec, func() {
		s.runOnce(context.Background())
	}); err != nil {
		return fmt.Errorf("schedule poll: %w", err)
	}
	s.cron.Start()
	return nil
}

// Stop halts polling and waits for a running tick to finish.
func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *SchedulerService) runOnce(ctx context.Context) {
	now := s.clk.Now().UTC()
	due, err := s.jobs.ClaimDue(ctx, now, now.Add(-s.lookback))
	if err != nil {
		log.Printf("scheduler: failed to claim due timers: %v", err)
		return
	}
	for _, job := range due {
		if err := s.dispatch(ctx, job.NoteID); err != nil {
			log.Printf("scheduler: dispatch for note %s: %v", job.NoteID, err)
		}
	}
}
