package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveLocalDayAndHour(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tz      string
		instant time.Time
		day     string
		hour    int
	}{
		{
			name:    "utc",
			tz:      "UTC",
			instant: time.Date(2024, time.January, 17, 14, 45, 0, 0, time.UTC),
			day:     "wed",
			hour:    14,
		},
		{
			name:    "new york winter",
			tz:      "America/New_York",
			instant: time.Date(2024, time.January, 15, 14, 0, 0, 0, time.UTC),
			day:     "mon",
			hour:    9,
		},
		{
			name:    "new york summer",
			tz:      "America/New_York",
			instant: time.Date(2024, time.July, 15, 13, 0, 0, 0, time.UTC),
			day:     "mon",
			hour:    9,
		},
		{
			name:    "before spring forward",
			tz:      "America/New_York",
			instant: time.Date(2024, time.March, 10, 6, 30, 0, 0, time.UTC),
			day:     "sun",
			hour:    1,
		},
		{
			name:    "after spring forward skips 2am",
			tz:      "America/New_York",
			instant: time.Date(2024, time.March, 10, 7, 30, 0, 0, time.UTC),
			day:     "sun",
			hour:    3,
		},
		{
			name:    "first 1am on fall back",
			tz:      "America/New_York",
			instant: time.Date(2024, time.November, 3, 5, 30, 0, 0, time.UTC),
			day:     "sun",
			hour:    1,
		},
		{
			name:    "second 1am on fall back",
			tz:      "America/New_York",
			instant: time.Date(2024, time.November, 3, 6, 30, 0, 0, time.UTC),
			day:     "sun",
			hour:    1,
		},
		{
			name:    "tokyo is already tomorrow",
			tz:      "Asia/Tokyo",
			instant: time.Date(2024, time.January, 15, 23, 30, 0, 0, time.UTC),
			day:     "tue",
			hour:    8,
		},
		{
			name:    "sydney end of daylight saving",
			tz:      "Australia/Sydney",
			instant: time.Date(2024, time.April, 6, 16, 30, 0, 0, time.UTC),
			day:     "sun",
			hour:    2,
		},
		{
			name:    "unknown zone falls back to utc",
			tz:      "Mars/Olympus_Mons",
			instant: time.Date(2024, time.January, 15, 23, 30, 0, 0, time.UTC),
			day:     "mon",
			hour:    23,
		},
		{
			name:    "empty zone is utc",
			tz:      "",
			instant: time.Date(2024, time.January, 20, 0, 5, 0, 0, time.UTC),
			day:     "sat",
			hour:    0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			day, hour := ResolveLocalDayAndHour(tt.tz, tt.instant)
			assert.Equal(t, tt.day, day)
			assert.Equal(t, tt.hour, hour)
		})
	}
}

func TestResolveLocalDayAndHour_IgnoresInstantLocation(t *testing.T) {
	t.Parallel()

	utc := time.Date(2024, time.January, 15, 14, 0, 0, 0, time.UTC)
	tokyo := utc.In(time.FixedZone("JST", 9*60*60))

	day1, hour1 := ResolveLocalDayAndHour("Europe/Berlin", utc)
	day2, hour2 := ResolveLocalDayAndHour("Europe/Berlin", tokyo)

	assert.Equal(t, day1, day2)
	assert.Equal(t, hour1, hour2)
	assert.Equal(t, 15, hour1)
}

func TestLocation(t *testing.T) {
	t.Parallel()

	assert.Equal(t, time.UTC, Location(""))
	assert.Equal(t, time.UTC, Location("Not/AZone"))
	assert.Equal(t, "Europe/London", Location(" Europe/London ").String())
}

func TestIsWeekdayToken(t *testing.T) {
	t.Parallel()

	assert.True(t, IsWeekdayToken("sun"))
	assert.True(t, IsWeekdayToken("sat"))
	assert.False(t, IsWeekdayToken("Mon"))
	assert.False(t, IsWeekdayToken("monday"))
}
