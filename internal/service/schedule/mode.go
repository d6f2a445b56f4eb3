package schedule

import (
	"slices"
	"time"

	"github.com/KasumiMercury/primind-motivation-delivery/internal/domain"
)

// DaySet is the set of weekdays eligible for delivery.
type DaySet map[time.Weekday]struct{}

func NewDaySet(days ...time.Weekday) DaySet {
	set := make(DaySet, len(days))
	for _, d := range days {
		set[d] = struct{}{}
	}
	return set
}

func (s DaySet) Contains(day time.Weekday) bool {
	_, ok := s[day]
	return ok
}

func (s DaySet) IsEmpty() bool {
	return len(s) == 0
}

// Days returns the set ordered Sunday first.
func (s DaySet) Days() []time.Weekday {
	days := make([]time.Weekday, 0, len(s))
	for d := range s {
		days = append(days, d)
	}
	slices.Sort(days)
	return days
}

// ActiveDays resolves a schedule mode to concrete weekdays. An empty custom
// set is legal and makes the schedule unsatisfiable until changed.
func ActiveDays(mode domain.ScheduleMode, custom []time.Weekday) DaySet {
	switch mode {
	case domain.ScheduleModeWeekdaysOnly:
		return NewDaySet(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)
	case domain.ScheduleModeWeekendsOnly:
		return NewDaySet(time.Saturday, time.Sunday)
	case domain.ScheduleModeCustomDays:
		return NewDaySet(custom...)
	default:
		return NewDaySet(time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday)
	}
}
