package timewindow

import (
	"fmt"
	"time"

	"github.com/KasumiMercury/primind-motivation-delivery/internal/domain"
)

// TimeWindow is the daily time-of-day range in which deliveries may occur.
// A window with Start == End is rejected.
type TimeWindow struct {
	Start domain.TimeOfDay
	End   domain.TimeOfDay
}

func New(start, end domain.TimeOfDay) (TimeWindow, error) {
	if !start.IsValid() || !end.IsValid() || start >= end {
		return TimeWindow{}, fmt.Errorf("%w: start=%s end=%s", ErrInvalidRange, start, end)
	}
	return TimeWindow{Start: start, End: end}, nil
}

func FromPreferences(prefs *domain.SchedulePreferences) (TimeWindow, error) {
	return New(prefs.WindowStart, prefs.WindowEnd)
}

func (w TimeWindow) Width() time.Duration {
	return time.Duration(w.End - w.Start)
}

// CalculateNotificationTimes splits the window into count equal sub-intervals
// and returns the midpoint of each, ascending.
func (w TimeWindow) CalculateNotificationTimes(count int) ([]domain.TimeOfDay, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	if w.Start >= w.End {
		return nil, fmt.Errorf("%w: start=%s end=%s", ErrInvalidRange, w.Start, w.End)
	}

	width := w.Width()
	times := make([]domain.TimeOfDay, 0, count)
	for i := range count {
		// (2i+1)/2count of the width, kept in integer nanoseconds.
		offset := width * time.Duration(2*i+1) / time.Duration(2*count)
		times = append(times, w.Start+domain.TimeOfDay(offset))
	}

	return times, nil
}

// IsWideEnough reports whether count deliveries fit with at least
// minIntervalMinutes between them. Used only for input validation.
func (w TimeWindow) IsWideEnough(count, minIntervalMinutes int) bool {
	return int(w.Width()/time.Minute) >= count*minIntervalMinutes
}
