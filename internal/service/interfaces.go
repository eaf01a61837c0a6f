package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"kindle_sender/internal/domain"
)

type ProfileStore interface {
	ListSchedulable(ctx context.Context) ([]domain.DeliveryProfile, error)
}

type ArticleStore interface {
	ListQueuedByUsers(ctx context.Context, userIDs []string) (map[string][]domain.Article, error)
	MarkSent(ctx context.Context, ids []int64, sentAt time.Time) error
}

type HistoryStore interface {
	Insert(ctx context.Context, record *domain.SendHistoryRecord) error
	LatestIssueNumber(ctx context.Context, userID string) (int, error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type EpubBuilder interface {
	Build(articles []domain.Article, prefs domain.EpubPreferences, issue int, date time.Time) (*domain.Artifact, error)
}

type Mailer interface {
	Send(ctx context.Context, artifact *domain.Artifact, profile domain.DeliveryProfile) error
}

type DeliveryLock interface {
	Acquire(ctx context.Context, userID string, window time.Time) (bool, error)
}

type Publisher interface {
	Publish(ctx context.Context, event *domain.DeliveryEvent) error
	Close() error
}
