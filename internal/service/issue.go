package service

import (
	"context"
	"fmt"
)

// nextIssueNumber is read fresh for every unit, right before the ebook is
// built, so failed attempts never consume a number.
func (s *DeliveryService) nextIssueNumber(ctx context.Context, userID string) (int, error) {
	latest, err := s.history.LatestIssueNumber(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("latest issue number: %w", err)
	}
	return latest + 1, nil
}
