package schedule

import (
	"time"

	"github.com/KasumiMercury/primind-motivation-delivery/internal/domain"
	"github.com/KasumiMercury/primind-motivation-delivery/internal/service/timewindow"
)

// SearchHorizonDays bounds the forward search so that unsatisfiable
// configurations terminate.
const SearchHorizonDays = 14

// NextDeliveryTime returns the first instant after from that falls on an
// active day at one of the given times. Days are walked in from's location.
// On from's own day only times strictly after from qualify; every later day
// is scanned from its first time. ok is false when nothing is found within
// SearchHorizonDays.
func NextDeliveryTime(days DaySet, times []domain.TimeOfDay, from time.Time) (next time.Time, ok bool) {
	if days.IsEmpty() || len(times) == 0 {
		return time.Time{}, false
	}

	startOfDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	for offset := range SearchHorizonDays {
		day := startOfDay.AddDate(0, 0, offset)
		if !days.Contains(day.Weekday()) {
			continue
		}

		for _, tod := range times {
			candidate := tod.On(day)
			if offset == 0 && !candidate.After(from) {
				continue
			}
			return candidate, true
		}
	}

	return time.Time{}, false
}

// ComputeNextDeliveryInstant derives the daily times from prefs and searches
// forward from from. The error is non-nil only for a malformed window or count.
func ComputeNextDeliveryInstant(prefs *domain.SchedulePreferences, from time.Time) (time.Time, bool, error) {
	window, err := timewindow.FromPreferences(prefs)
	if err != nil {
		return time.Time{}, false, err
	}

	times, err := window.CalculateNotificationTimes(prefs.NotificationsPerDay)
	if err != nil {
		return time.Time{}, false, err
	}

	next, ok := NextDeliveryTime(ActiveDays(prefs.Mode, prefs.CustomDays), times, from)
	return next, ok, nil
}
