package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// RunFunc performs one complete pipeline run.
type RunFunc func(ctx context.Context) error

// Scheduler owns the main loop: it triggers one run immediately, then one per
// interval. Runs never overlap; a slow run delays the next tick.
type Scheduler struct {
	run      RunFunc
	interval time.Duration
	logger   *slog.Logger
}

// NewScheduler creates a scheduler that calls run every interval.
func NewScheduler(run RunFunc, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		run:      run,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the loop. A failed run is logged and the loop keeps going. It
// returns nil when ctx is cancelled (graceful shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler", "interval", s.interval.String())

	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	if err := s.run(ctx); err != nil {
		s.logger.Error("run failed", "error", err, "took", time.Since(start).Round(time.Millisecond))
		return
	}
	s.logger.Debug("run completed", "took", time.Since(start).Round(time.Millisecond))
}
