package domain

import "time"

type SendStatus string

const (
	SendSuccess SendStatus = "success"
	SendFailed  SendStatus = "failed"
)

// SendHistoryRecord is an append-only audit entry for one delivery attempt.
type SendHistoryRecord struct {
	ID           int64      `db:"id"`
	UserID       string     `db:"user_id"`
	ArticleCount int        `db:"article_count"`
	Status       SendStatus `db:"status"`
	IssueNumber  *int       `db:"issue_number"`
	ErrorMessage *string    `db:"error_message"`
	CreatedAt    time.Time  `db:"created_at"`
}

func SuccessRecord(userID string, articleCount, issue int) *SendHistoryRecord {
	return &SendHistoryRecord{
		UserID:       userID,
		ArticleCount: articleCount,
		Status:       SendSuccess,
		IssueNumber:  &issue,
	}
}

func FailedRecord(userID string, articleCount int, reason string) *SendHistoryRecord {
	return &SendHistoryRecord{
		UserID:       userID,
		ArticleCount: articleCount,
		Status:       SendFailed,
		ErrorMessage: &reason,
	}
}
