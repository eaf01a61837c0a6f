package domain

import (
	"strings"
	"time"
)

type ArticleStatus string

const (
	ArticleQueued ArticleStatus = "queued"
	ArticleSent   ArticleStatus = "sent"
)

// Article is a queued piece of extracted web content owned by one user.
type Article struct {
	ID              int64         `db:"id"`
	UserID          string        `db:"user_id"`
	URL             string        `db:"url"`
	Title           *string       `db:"title"`
	Author          *string       `db:"author"`
	Content         *string       `db:"content"`
	ReadTimeMinutes *int          `db:"read_time_minutes"`
	PublishedAt     *time.Time    `db:"published_at"`
	Status          ArticleStatus `db:"status"`
	CreatedAt       time.Time     `db:"created_at"`
	SentAt          *time.Time    `db:"sent_at"`
}

// IsSendable reports whether extraction produced any body to deliver.
func (a Article) IsSendable() bool {
	return a.Content != nil && strings.TrimSpace(*a.Content) != ""
}
