// Package schedule decides when a user's delivery window is open.
package schedule

import (
	"strings"
	"sync"
	"time"
)

var weekdayTokens = [...]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

var locations sync.Map // zone name -> *time.Location

// Location resolves an IANA zone name. Empty or unknown names resolve to UTC.
func Location(tz string) *time.Location {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		return time.UTC
	}
	if loc, ok := locations.Load(tz); ok {
		return loc.(*time.Location)
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	locations.Store(tz, loc)
	return loc
}

// ResolveLocalDayAndHour returns the lower-case three letter weekday and the
// 24h hour that a wall clock in tz shows at instant.
func ResolveLocalDayAndHour(tz string, instant time.Time) (string, int) {
	local := instant.In(Location(tz))
	return WeekdayToken(local.Weekday()), local.Hour()
}

func WeekdayToken(d time.Weekday) string {
	return weekdayTokens[d]
}

// IsWeekdayToken reports whether s is one of sun..sat.
func IsWeekdayToken(s string) bool {
	for _, t := range weekdayTokens {
		if t == s {
			return true
		}
	}
	return false
}
