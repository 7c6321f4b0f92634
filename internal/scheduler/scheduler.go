// Package scheduler triggers the daily report at a fixed local hour. It is
// deliberately decoupled from the pipeline: it holds only the narrow Job
// interface, so the report service stays testable without wall-clock timing
// and the scheduler stays testable with a stub job.
package scheduler

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Job is one report run. *report.Service satisfies this.
type Job interface {
	Run(ctx context.Context, now time.Time) error
}

// Config holds scheduler tuning. Zero values get defaults from New.
type Config struct {
	// Hour is the local hour of day (0–23) the job fires. Default 1.
	Hour int

	// Location is the zone Hour is interpreted in. Default UTC.
	Location *time.Location

	// RunTimeout bounds one complete run, delivery included. Default 5m.
	RunTimeout time.Duration
}

// Scheduler fires Job once per day. At most one run is in flight at any
// moment: if a trigger arrives while a run is still going (only possible at
// shortened test cadences), the trigger is skipped and logged, never queued.
type Scheduler struct {
	job    Job
	cfg    Config
	logger *slog.Logger

	running atomic.Bool
}

// New constructs a Scheduler. Call Start to begin triggering.
func New(job Job, cfg Config, logger *slog.Logger) *Scheduler {
	if cfg.Hour < 0 || cfg.Hour > 23 {
		cfg.Hour = 1
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 5 * time.Minute
	}
	return &Scheduler{
		job:    job,
		cfg:    cfg,
		logger: logger,
	}
}

// Start blocks until ctx is cancelled, firing the job at each daily trigger.
// Call it in a goroutine from main:
//
//	go sched.Start(ctx)
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("scheduler: starting",
		"hour", s.cfg.Hour,
		"timezone", s.cfg.Location.String(),
	)

	for {
		next := nextTrigger(time.Now(), s.cfg.Hour, s.cfg.Location)
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("scheduler: stopped")
			return
		case <-timer.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce executes one guarded run. A failure terminates that run only;
// nothing propagates past this boundary, so the next trigger always proceeds.
func (s *Scheduler) RunOnce(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("scheduler: previous run still in flight, skipping trigger")
		return
	}
	defer s.running.Store(false)

	defer func() {
		if p := recover(); p != nil {
			s.logger.Error("scheduler: run panicked", "panic", p)
		}
	}()

	runCtx, cancel := context.WithTimeout(ctx, s.cfg.RunTimeout)
	defer cancel()

	start := time.Now()
	s.logger.Info("scheduler: starting daily report run")

	if err := s.job.Run(runCtx, start); err != nil {
		s.logger.Error("scheduler: daily report failed",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return
	}

	s.logger.Info("scheduler: daily report sent",
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// nextTrigger returns the next occurrence of hour in loc strictly after now.
func nextTrigger(now time.Time, hour int, loc *time.Location) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, 0, 0, 0, loc)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
