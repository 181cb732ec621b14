package usecase

import (
	"context"
	"log/slog"
	"time"

	"HeadlineScorer/internal/ports"
)

// Scheduler wires the interval driver with the scoring job.
type Scheduler struct {
	driver ports.Scheduler
	job    *Job
	logger *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring jobs.
func NewScheduler(driver ports.Scheduler, job *Job, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(discardHandler{})
	}
	return &Scheduler{driver: driver, job: job, logger: logger}
}

// Start registers the job with the provided scheduler. A failed tick is
// logged and the next one runs as usual.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.job == nil {
		return nil
	}

	tick := func(trigger time.Time) {
		report, err := s.job.Process(ctx)
		if err != nil {
			s.logger.Error("scheduled run failed", "trigger", trigger, "error", err)
			return
		}
		s.logger.Info("scheduled run finished",
			"trigger", trigger,
			"source", report.Run.SourceName,
			"kept", len(report.Run.Results))
	}

	return s.driver.Start(ctx, tick)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
