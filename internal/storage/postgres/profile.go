package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"kindle_sender/internal/domain"
)

type ProfileStore struct {
	db *sqlx.DB
}

func NewProfileStore(db *sqlx.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

type profileRow struct {
	UserID            string         `db:"user_id"`
	KindleEmail       string         `db:"kindle_email"`
	SenderEmail       string         `db:"sender_email"`
	SenderPassword    string         `db:"sender_password"`
	DeliveryDays      pq.StringArray `db:"delivery_days"`
	DeliveryTime      string         `db:"delivery_time"`
	Timezone          sql.NullString `db:"timezone"`
	MinArticleCount   sql.NullInt64  `db:"min_article_count"`
	EpubFont          sql.NullString `db:"epub_font"`
	IncludeImages     bool           `db:"epub_include_images"`
	ShowAuthor        bool           `db:"epub_show_author"`
	ShowReadTime      bool           `db:"epub_show_read_time"`
	ShowPublishedDate bool           `db:"epub_show_published_date"`
}

// ListSchedulable returns every profile with a day set, a delivery time and
// complete credentials. The filtering happens in the query.
func (s *ProfileStore) ListSchedulable(ctx context.Context) ([]domain.DeliveryProfile, error) {
	query, args, err := psql.
		Select(
			"user_id",
			"kindle_email",
			"sender_email",
			"sender_password",
			"delivery_days",
			"delivery_time::text AS delivery_time",
			"timezone",
			"min_article_count",
			"epub_font",
			"epub_include_images",
			"epub_show_author",
			"epub_show_read_time",
			"epub_show_published_date",
		).
		From("user_settings").
		Where(sq.And{
			sq.NotEq{"delivery_days": nil},
			sq.Expr("cardinality(delivery_days) > 0"),
			sq.NotEq{"delivery_time": nil},
			sq.Expr("COALESCE(kindle_email, '') <> ''"),
			sq.Expr("COALESCE(sender_email, '') <> ''"),
			sq.Expr("COALESCE(sender_password, '') <> ''"),
		}).
		OrderBy("user_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []profileRow
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select profiles: %w", err)
	}

	profiles := make([]domain.DeliveryProfile, 0, len(rows))
	for _, r := range rows {
		profiles = append(profiles, r.toDomain())
	}
	return profiles, nil
}

// toDomain normalizes optional columns once, so the rest of the code never
// sees a missing timezone or threshold.
func (r profileRow) toDomain() domain.DeliveryProfile {
	p := domain.DeliveryProfile{
		UserID:          r.UserID,
		KindleEmail:     r.KindleEmail,
		SenderEmail:     r.SenderEmail,
		SenderPassword:  r.SenderPassword,
		Timezone:        domain.DefaultTimezone,
		MinArticleCount: domain.DefaultMinArticleCount,
		Epub: domain.EpubPreferences{
			Font:              domain.ParseFont(r.EpubFont.String),
			IncludeImages:     r.IncludeImages,
			ShowAuthor:        r.ShowAuthor,
			ShowReadTime:      r.ShowReadTime,
			ShowPublishedDate: r.ShowPublishedDate,
		},
	}

	for _, d := range r.DeliveryDays {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			p.DeliveryDays = append(p.DeliveryDays, d)
		}
	}

	// An unparseable time leaves DeliveryTime nil and the profile
	// unschedulable.
	if t, err := domain.ParseTimeOfDay(r.DeliveryTime); err == nil {
		p.DeliveryTime = &t
	}

	if tz := strings.TrimSpace(r.Timezone.String); r.Timezone.Valid && tz != "" {
		p.Timezone = tz
	}
	if r.MinArticleCount.Valid && r.MinArticleCount.Int64 > 0 {
		p.MinArticleCount = int(r.MinArticleCount.Int64)
	}

	return p
}
