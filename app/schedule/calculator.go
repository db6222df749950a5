package schedule

import (
	"time"

	"github.com/lysyi3m/feed-digest/app/config"
)

// NextFireTime computes the next future occurrence of the configured
// time-of-day on an allowed weekday, in the given timezone. The zero time is
// returned when no weekday is enabled. The candidate must be strictly in the
// future: a run at exactly the configured time rolls over to the next
// allowed day.
func NextFireTime(scheduleConfig config.ConfigSchedule, now time.Time, loc *time.Location) time.Time {
	if len(scheduleConfig.Weekdays) == 0 {
		return time.Time{}
	}

	allowed := make(map[time.Weekday]bool, len(scheduleConfig.Weekdays))
	for _, weekday := range scheduleConfig.Weekdays {
		if weekday >= 0 && weekday <= 6 {
			allowed[time.Weekday(weekday)] = true
		}
	}
	if len(allowed) == 0 {
		return time.Time{}
	}

	localNow := now.In(loc)
	candidate := time.Date(localNow.Year(), localNow.Month(), localNow.Day(),
		scheduleConfig.Hour, scheduleConfig.Minute, 0, 0, loc)

	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 1)
	}

	// At least one weekday is enabled, so a match exists within 7 days
	for i := 0; i < 7; i++ {
		if allowed[candidate.Weekday()] {
			return candidate
		}
		candidate = candidate.AddDate(0, 0, 1)
	}

	return time.Time{}
}

// Location resolves a schedule's timezone, falling back to the given default
// when the schedule does not name one.
func Location(scheduleConfig config.ConfigSchedule, fallback *time.Location) *time.Location {
	if scheduleConfig.Timezone == "" {
		return fallback
	}
	loc, err := time.LoadLocation(scheduleConfig.Timezone)
	if err != nil {
		return fallback
	}
	return loc
}
