package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/clock"
)

// Job represents a scheduled job. Interval jobs run on start and then every
// Interval. Daily jobs run once per day at minute DailyAt of Location.
type Job struct {
	Name     string
	Interval time.Duration
	DailyAt  int
	Location *time.Location
	Fn       func(ctx context.Context) error
}

func (j Job) isDaily() bool {
	return j.Location != nil
}

// Scheduler manages scheduled jobs
type Scheduler struct {
	jobs   []Job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewScheduler creates a new cron scheduler
func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		jobs:   make([]Job, 0),
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddJob adds an interval job to the scheduler
func (s *Scheduler) AddJob(name string, interval time.Duration, fn func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, Job{
		Name:     name,
		Interval: interval,
		Fn:       fn,
	})
	slog.Info("Cron job registered", "name", name, "interval", interval)
}

// AddDailyJob adds a job that fires every day at the "HH:mm" wall time of loc.
func (s *Scheduler) AddDailyJob(name, at string, loc *time.Location, fn func(ctx context.Context) error) error {
	minute, err := clock.ParseHHMM(at)
	if err != nil {
		return fmt.Errorf("invalid daily time for job %s: %w", name, err)
	}
	if loc == nil {
		loc = time.Local
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, Job{
		Name:     name,
		DailyAt:  minute,
		Location: loc,
		Fn:       fn,
	})
	slog.Info("Cron job registered", "name", name, "daily_at", at, "location", loc.String())
	return nil
}

// Start begins running all scheduled jobs
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		s.wg.Add(1)
		if job.isDaily() {
			go s.runDaily(job)
		} else {
			go s.runJob(job)
		}
	}

	slog.Info("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop gracefully stops all scheduled jobs
func (s *Scheduler) Stop() {
	slog.Info("Stopping cron scheduler...")
	s.cancel()
	s.wg.Wait()
	slog.Info("Cron scheduler stopped")
}

// runJob runs an interval job on its ticker
func (s *Scheduler) runJob(job Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	// Run immediately on start
	s.executeJob(job)

	for {
		select {
		case <-s.ctx.Done():
			slog.Info("Cron job stopping", "name", job.Name)
			return
		case <-ticker.C:
			s.executeJob(job)
		}
	}
}

// runDaily sleeps until the next wall-clock occurrence, runs, and repeats.
func (s *Scheduler) runDaily(job Job) {
	defer s.wg.Done()

	for {
		next := NextDailyRun(time.Now(), job.DailyAt, job.Location)
		timer := time.NewTimer(time.Until(next))
		slog.Debug("Cron job scheduled", "name", job.Name, "next_run", next)

		select {
		case <-s.ctx.Done():
			timer.Stop()
			slog.Info("Cron job stopping", "name", job.Name)
			return
		case <-timer.C:
			s.executeJob(job)
		}
	}
}

// NextDailyRun returns the first instant strictly after now whose wall time
// in loc is minuteOfDay.
func NextDailyRun(now time.Time, minuteOfDay int, loc *time.Location) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), minuteOfDay/60, minuteOfDay%60, 0, 0, loc)
	if !next.After(now) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, minuteOfDay/60, minuteOfDay%60, 0, 0, loc)
	}
	return next
}

// executeJob executes a job and logs results
func (s *Scheduler) executeJob(job Job) {
	start := time.Now()
	slog.Debug("Cron job starting", "name", job.Name)

	if err := job.Fn(s.ctx); err != nil {
		slog.Error("Cron job failed", "name", job.Name, "error", err, "duration", time.Since(start))
	} else {
		slog.Debug("Cron job completed", "name", job.Name, "duration", time.Since(start))
	}
}

// RunOnce runs all jobs once (useful for testing)
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		if err := job.Fn(ctx); err != nil {
			slog.Error("Cron job failed", "name", job.Name, "error", err)
		}
	}
}
