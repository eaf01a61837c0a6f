package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultTimezone        = "UTC"
	DefaultMinArticleCount = 1
)

type Font string

const (
	FontBookerly  Font = "bookerly"
	FontGeorgia   Font = "georgia"
	FontPalatino  Font = "palatino"
	FontHelvetica Font = "helvetica"
	FontSerif     Font = "serif"
	FontSansSerif Font = "sans-serif"
)

// ParseFont maps a stored font choice onto the closed set, falling back to
// FontSerif for anything unknown.
func ParseFont(s string) Font {
	switch f := Font(strings.ToLower(strings.TrimSpace(s))); f {
	case FontBookerly, FontGeorgia, FontPalatino, FontHelvetica, FontSerif, FontSansSerif:
		return f
	default:
		return FontSerif
	}
}

type EpubPreferences struct {
	Font              Font
	IncludeImages     bool
	ShowAuthor        bool
	ShowReadTime      bool
	ShowPublishedDate bool
}

func DefaultEpubPreferences() EpubPreferences {
	return EpubPreferences{
		Font:              FontSerif,
		IncludeImages:     true,
		ShowAuthor:        true,
		ShowReadTime:      true,
		ShowPublishedDate: true,
	}
}

// TimeOfDay is a local wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay accepts "HH:MM" and "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid minute in %q", s)
	}

	if len(parts) == 3 {
		second, err := strconv.Atoi(parts[2])
		if err != nil || second < 0 || second > 59 {
			return TimeOfDay{}, fmt.Errorf("invalid second in %q", s)
		}
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// DeliveryProfile is the per-user delivery configuration. It is owned by the
// settings store and read-only here.
type DeliveryProfile struct {
	UserID          string
	KindleEmail     string
	SenderEmail     string
	SenderPassword  string
	DeliveryDays    []string
	DeliveryTime    *TimeOfDay
	Timezone        string
	MinArticleCount int
	Epub            EpubPreferences
}

// IsSchedulable reports whether the profile carries everything a scheduled
// delivery needs.
func (p DeliveryProfile) IsSchedulable() bool {
	return len(p.DeliveryDays) > 0 &&
		p.DeliveryTime != nil &&
		p.KindleEmail != "" &&
		p.SenderEmail != "" &&
		p.SenderPassword != ""
}

// EffectiveMinArticleCount never goes below one.
func (p DeliveryProfile) EffectiveMinArticleCount() int {
	if p.MinArticleCount < 1 {
		return DefaultMinArticleCount
	}
	return p.MinArticleCount
}
