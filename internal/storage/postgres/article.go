package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"kindle_sender/internal/domain"
)

var articleColumns = []string{
	"id", "user_id", "url", "title", "author", "content",
	"read_time_minutes", "published_at", "status", "created_at", "sent_at",
}

type ArticleStore struct {
	db *sqlx.DB
}

func NewArticleStore(db *sqlx.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

// ListQueuedByUsers returns the queued articles of each user, oldest first.
func (s *ArticleStore) ListQueuedByUsers(ctx context.Context, userIDs []string) (map[string][]domain.Article, error) {
	result := make(map[string][]domain.Article, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	query, args, err := psql.
		Select(articleColumns...).
		From("articles").
		Where(sq.Eq{
			"status":  domain.ArticleQueued,
			"user_id": userIDs,
		}).
		OrderBy("user_id", "created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var articles []domain.Article
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &articles, query, args...); err != nil {
		return nil, fmt.Errorf("select queued articles: %w", err)
	}

	for _, a := range articles {
		result[a.UserID] = append(result[a.UserID], a)
	}
	return result, nil
}

// MarkSent moves the given queued articles to sent in a single statement.
func (s *ArticleStore) MarkSent(ctx context.Context, ids []int64, sentAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := psql.
		Update("articles").
		Set("status", domain.ArticleSent).
		Set("sent_at", sentAt).
		Where(sq.Eq{
			"id":     ids,
			"status": domain.ArticleQueued,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update articles: %w", err)
	}
	return nil
}
