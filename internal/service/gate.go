package service

import (
	"kindle_sender/internal/domain"
)

// SelectDeliverableArticles keeps the articles with non-blank content, in
// input order, and reports whether there are enough of them to send.
func SelectDeliverableArticles(articles []domain.Article, minArticleCount int) ([]domain.Article, bool) {
	var sendable []domain.Article
	for _, a := range articles {
		if a.IsSendable() {
			sendable = append(sendable, a)
		}
	}

	threshold := max(minArticleCount, 1)
	return sendable, len(sendable) >= threshold
}

// Unit is one user's share of a run.
type Unit struct {
	Profile  domain.DeliveryProfile
	Articles []domain.Article
}

// PlanUnits applies the delivery gate to every due profile. Profiles below
// their threshold produce no unit at all.
func PlanUnits(due []domain.DeliveryProfile, queued map[string][]domain.Article) (units []Unit, belowThreshold int) {
	for _, p := range due {
		sendable, ok := SelectDeliverableArticles(queued[p.UserID], p.EffectiveMinArticleCount())
		if !ok {
			belowThreshold++
			continue
		}
		units = append(units, Unit{Profile: p, Articles: sendable})
	}
	return units, belowThreshold
}
