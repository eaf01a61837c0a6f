package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kindle_sender/internal/domain"
	"kindle_sender/internal/metrics"
)

// recordOutcome writes the only persisted side effects of a unit. It never
// returns an error: problems are logged and reflected in the unit status.
func (s *DeliveryService) recordOutcome(ctx context.Context, unit Unit, issue int, attemptErr error, now time.Time) domain.UnitStatus {
	logger := s.logger.With("user_id", unit.Profile.UserID)
	count := len(unit.Articles)

	if attemptErr != nil {
		return s.recordFailure(ctx, logger, unit, attemptErr, now)
	}

	ids := make([]int64, count)
	for i, a := range unit.Articles {
		ids[i] = a.ID
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.articles.MarkSent(txCtx, ids, now); err != nil {
			return fmt.Errorf("mark articles sent: %w", err)
		}
		if err := s.history.Insert(txCtx, domain.SuccessRecord(unit.Profile.UserID, count, issue)); err != nil {
			return fmt.Errorf("insert history: %w", err)
		}
		return nil
	})
	if err != nil {
		// The email is already out; a failed record here would be wrong.
		logger.Error("delivered but failed to record outcome",
			"issue", issue,
			"articles", count,
			"error", err,
		)
		metrics.RecordFailure("record_outcome")
		return domain.UnitFailed
	}

	metrics.ArticlesDelivered.Add(float64(count))
	logger.Info("delivered issue", "issue", issue, "articles", count)

	s.publish(ctx, logger, &domain.DeliveryEvent{
		Type:         domain.EventDeliverySucceeded,
		UserID:       unit.Profile.UserID,
		ArticleCount: count,
		IssueNumber:  &issue,
		Timestamp:    now.UTC(),
	})

	return domain.UnitDelivered
}

func (s *DeliveryService) recordFailure(ctx context.Context, logger *slog.Logger, unit Unit, attemptErr error, now time.Time) domain.UnitStatus {
	unitErr := domain.AsUnitError(attemptErr, domain.FailureUnexpected)
	count := len(unit.Articles)

	logger.Error("delivery unit failed",
		"kind", unitErr.Kind,
		"articles", count,
		"error", unitErr.Err,
	)
	metrics.RecordFailure(string(unitErr.Kind))

	record := domain.FailedRecord(unit.Profile.UserID, count, unitErr.Error())
	if err := s.history.Insert(ctx, record); err != nil {
		logger.Error("failed to record failed delivery", "error", err)
	}

	s.publish(ctx, logger, &domain.DeliveryEvent{
		Type:         domain.EventDeliveryFailed,
		UserID:       unit.Profile.UserID,
		ArticleCount: count,
		Error:        unitErr.Error(),
		Timestamp:    now.UTC(),
	})

	return domain.UnitFailed
}

func (s *DeliveryService) publish(ctx context.Context, logger *slog.Logger, event *domain.DeliveryEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Warn("failed to publish delivery event", "type", event.Type, "error", err)
	}
}
