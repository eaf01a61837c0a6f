package schedule

import (
	"strings"
	"time"

	"kindle_sender/internal/domain"
)

// IsDeliveryDue reports whether now falls into the profile's delivery window.
// Matching is hour-granular: the minute of DeliveryTime is ignored because
// ticks arrive hourly.
func IsDeliveryDue(profile domain.DeliveryProfile, now time.Time) bool {
	if profile.DeliveryTime == nil {
		return false
	}

	day, hour := ResolveLocalDayAndHour(profile.Timezone, now)
	if hour != profile.DeliveryTime.Hour {
		return false
	}

	for _, d := range profile.DeliveryDays {
		if strings.ToLower(strings.TrimSpace(d)) == day {
			return true
		}
	}
	return false
}

// DueProfiles keeps the schedulable profiles whose window is open at now,
// preserving input order.
func DueProfiles(profiles []domain.DeliveryProfile, now time.Time) []domain.DeliveryProfile {
	var due []domain.DeliveryProfile
	for _, p := range profiles {
		if p.IsSchedulable() && IsDeliveryDue(p, now) {
			due = append(due, p)
		}
	}
	return due
}
