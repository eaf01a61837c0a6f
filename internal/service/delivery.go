package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"kindle_sender/internal/config"
	"kindle_sender/internal/domain"
	"kindle_sender/internal/metrics"
	"kindle_sender/internal/schedule"
)

type DeliveryService struct {
	profiles  ProfileStore
	articles  ArticleStore
	history   HistoryStore
	txManager TransactionManager
	builder   EpubBuilder
	mailer    Mailer
	lock      DeliveryLock
	publisher Publisher
	logger    *slog.Logger
	config    config.DeliveryConfig
}

// NewDeliveryService wires the run loop. lock and publisher are optional.
func NewDeliveryService(
	profiles ProfileStore,
	articles ArticleStore,
	history HistoryStore,
	txManager TransactionManager,
	builder EpubBuilder,
	mailer Mailer,
	lock DeliveryLock,
	publisher Publisher,
	logger *slog.Logger,
	cfg config.DeliveryConfig,
) *DeliveryService {
	return &DeliveryService{
		profiles:  profiles,
		articles:  articles,
		history:   history,
		txManager: txManager,
		builder:   builder,
		mailer:    mailer,
		lock:      lock,
		publisher: publisher,
		logger:    logger.With("component", "delivery"),
		config:    cfg,
	}
}

// Run performs one tick: every schedulable user whose window is open at now
// is processed in turn. Only failures to read the stores before any unit has
// started are returned; everything that goes wrong inside a unit is recorded
// in send history and the loop moves on.
func (s *DeliveryService) Run(ctx context.Context, now time.Time) (*domain.RunStats, error) {
	startTime := time.Now()
	stats, err := s.run(ctx, now)
	metrics.RecordRun(time.Since(startTime), err)
	return stats, err
}

func (s *DeliveryService) run(ctx context.Context, now time.Time) (*domain.RunStats, error) {
	startTime := time.Now()
	s.logger.Info("starting delivery run", "tick", now.UTC())

	profiles, err := s.profiles.ListSchedulable(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	due := schedule.DueProfiles(profiles, now)
	stats := &domain.RunStats{
		Candidates: len(profiles),
		Due:        len(due),
	}

	s.logger.Info("matched delivery windows", "candidates", stats.Candidates, "due", stats.Due)

	if len(due) == 0 {
		stats.Duration = time.Since(startTime)
		return stats, nil
	}

	userIDs := make([]string, len(due))
	for i, p := range due {
		userIDs[i] = p.UserID
	}

	queued, err := s.articles.ListQueuedByUsers(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("list queued articles: %w", err)
	}

	units, below := PlanUnits(due, queued)
	stats.BelowThreshold = below
	metrics.BelowThreshold.Add(float64(below))

	for i, unit := range units {
		if ctx.Err() != nil {
			s.logSkipped(units[i:], ctx.Err())
			stats.Skipped = len(units) - i
			break
		}
		stats.Add(s.processUnit(ctx, unit, now))
	}

	stats.Duration = time.Since(startTime)

	s.logger.Info("delivery run completed",
		"due", stats.Due,
		"below_threshold", stats.BelowThreshold,
		"locked", stats.Locked,
		"delivered", stats.Delivered,
		"failed", stats.Failed,
		"skipped", stats.Skipped,
		"duration", stats.Duration,
	)

	return stats, nil
}

func (s *DeliveryService) processUnit(ctx context.Context, unit Unit, now time.Time) (status domain.UnitStatus) {
	startTime := time.Now()
	logger := s.logger.With("user_id", unit.Profile.UserID)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("delivery unit panicked", "panic", r)
			status = domain.UnitFailed
			metrics.RecordUnit(string(status), time.Since(startTime))
		}
	}()

	unitCtx, cancel := s.unitContext(ctx)
	defer cancel()

	if s.lock != nil {
		acquired, err := s.lock.Acquire(unitCtx, unit.Profile.UserID, now)
		if err != nil {
			logger.Warn("delivery lock unavailable, continuing without it", "error", err)
		} else if !acquired {
			logger.Info("delivery already handled for this window")
			metrics.RecordUnit(string(domain.UnitLocked), time.Since(startTime))
			return domain.UnitLocked
		}
	}

	issue, err := s.attempt(unitCtx, unit, now)

	// Recording outlives both the unit and the run context: once a mail is
	// out its outcome has to land in history.
	recordCtx, cancelRecord := s.recordContext(ctx)
	defer cancelRecord()

	status = s.recordOutcome(recordCtx, unit, issue, err, now)
	metrics.RecordUnit(string(status), time.Since(startTime))
	return status
}

func (s *DeliveryService) unitContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.config.UnitTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.config.UnitTimeout)
}

func (s *DeliveryService) recordContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if s.config.RecordTimeout <= 0 {
		return context.WithCancel(detached)
	}
	return context.WithTimeout(detached, s.config.RecordTimeout)
}

// logSkipped reports units never started because the run was cancelled.
// Their articles stay queued for the next matching window.
func (s *DeliveryService) logSkipped(units []Unit, cause error) {
	userIDs := make([]string, len(units))
	for i, u := range units {
		userIDs[i] = u.Profile.UserID
	}
	s.logger.Warn("run cancelled, remaining units skipped",
		"skipped", len(units),
		"user_ids", userIDs,
		"error", cause,
	)
}

// attempt runs issue numbering, assembly and delivery for one unit. Every
// returned error is a *domain.UnitError.
func (s *DeliveryService) attempt(ctx context.Context, unit Unit, now time.Time) (issue int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = domain.UnexpectedFailure(fmt.Errorf("panic: %v", r))
		}
	}()

	issue, err = s.nextIssueNumber(ctx, unit.Profile.UserID)
	if err != nil {
		return 0, domain.UnexpectedFailure(err)
	}

	localDate := now.In(schedule.Location(unit.Profile.Timezone))

	artifact, err := s.build(ctx, unit, issue, localDate)
	if err != nil {
		return issue, domain.AsUnitError(err, domain.FailureEpubGeneration)
	}

	if err := s.mailer.Send(ctx, artifact, unit.Profile); err != nil {
		return issue, domain.AsUnitError(err, domain.FailureDelivery)
	}

	return issue, nil
}

type buildResult struct {
	artifact *domain.Artifact
	err      error
}

// build bounds the encoder by the unit context. A hung encoder keeps its
// goroutine but no longer stalls the batch.
func (s *DeliveryService) build(ctx context.Context, unit Unit, issue int, date time.Time) (*domain.Artifact, error) {
	done := make(chan buildResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- buildResult{err: domain.EpubGenerationFailed(fmt.Errorf("panic: %v", r))}
			}
		}()
		artifact, err := s.builder.Build(unit.Articles, unit.Profile.Epub, issue, date)
		done <- buildResult{artifact: artifact, err: err}
	}()

	select {
	case res := <-done:
		if res.err == nil && res.artifact == nil {
			return nil, errors.New("encoder returned no artifact")
		}
		return res.artifact, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
