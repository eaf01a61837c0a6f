package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"kindle_sender/internal/domain"
)

type HistoryStore struct {
	db *sqlx.DB
}

func NewHistoryStore(db *sqlx.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// Insert appends a record and fills in its ID and CreatedAt.
func (s *HistoryStore) Insert(ctx context.Context, record *domain.SendHistoryRecord) error {
	query := `
		INSERT INTO send_history (user_id, article_count, status, issue_number, error_message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		record.UserID,
		record.ArticleCount,
		record.Status,
		record.IssueNumber,
		record.ErrorMessage,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert send history: %w", err)
	}
	return nil
}

// LatestIssueNumber returns the highest successful issue for the user, or 0
// when there is none yet.
func (s *HistoryStore) LatestIssueNumber(ctx context.Context, userID string) (int, error) {
	query, args, err := psql.
		Select("issue_number").
		From("send_history").
		Where(sq.Eq{
			"user_id": userID,
			"status":  domain.SendSuccess,
		}).
		Where(sq.NotEq{"issue_number": nil}).
		OrderBy("issue_number DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var issue int
	err = sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &issue, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("select latest issue: %w", err)
	}
	return issue, nil
}
