package scheduler

import (
	"context"
	"log/slog"
	"time"

	"kindle_sender/internal/domain"
)

// Runner performs one delivery tick.
type Runner interface {
	Run(ctx context.Context, now time.Time) (*domain.RunStats, error)
}

type Scheduler struct {
	runner     Runner
	runTimeout time.Duration
	runOnStart bool
	logger     *slog.Logger
	now        func() time.Time
}

func NewScheduler(runner Runner, runTimeout time.Duration, runOnStart bool, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:     runner,
		runTimeout: runTimeout,
		runOnStart: runOnStart,
		logger:     logger.With("component", "scheduler"),
		now:        time.Now,
	}
}

// Start ticks at the top of every hour until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "run_on_start", s.runOnStart, "run_timeout", s.runTimeout)

	if s.runOnStart {
		_, _ = s.RunOnce(ctx, s.now())
	}

	for {
		now := s.now()
		next := nextTick(now)
		timer := time.NewTimer(next.Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-timer.C:
			_, _ = s.RunOnce(ctx, next)
		}
	}
}

// RunOnce runs a single tick bounded by the run timeout. Errors are logged
// and returned for callers that report them.
func (s *Scheduler) RunOnce(ctx context.Context, now time.Time) (*domain.RunStats, error) {
	runCtx := ctx
	if s.runTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.runTimeout)
		defer cancel()
	}

	stats, err := s.runner.Run(runCtx, now)
	if err != nil {
		s.logger.Error("delivery run aborted", "tick", now.UTC(), "error", err)
		return nil, err
	}

	return stats, nil
}

// nextTick returns the first top of the hour strictly after t.
func nextTick(t time.Time) time.Time {
	return t.Truncate(time.Hour).Add(time.Hour)
}
