package domain

import (
	"fmt"
	"strings"
	"time"
)

// ScheduleMode selects which weekdays are eligible for delivery.
type ScheduleMode string

const (
	ScheduleModeAllDays      ScheduleMode = "ALL_DAYS"
	ScheduleModeWeekdaysOnly ScheduleMode = "WEEKDAYS_ONLY"
	ScheduleModeWeekendsOnly ScheduleMode = "WEEKENDS_ONLY"
	ScheduleModeCustomDays   ScheduleMode = "CUSTOM_DAYS"
)

func (m ScheduleMode) String() string {
	return string(m)
}

func (m ScheduleMode) IsValid() bool {
	switch m {
	case ScheduleModeAllDays, ScheduleModeWeekdaysOnly, ScheduleModeWeekendsOnly, ScheduleModeCustomDays:
		return true
	default:
		return false
	}
}

const (
	MinNotificationsPerDay = 1
	MaxNotificationsPerDay = 10
)

// SchedulePreferences is the single user-owned scheduling configuration.
// CustomDays is only consulted when Mode is ScheduleModeCustomDays.
type SchedulePreferences struct {
	NotificationsPerDay int            `json:"notifications_per_day"`
	Mode                ScheduleMode   `json:"mode"`
	CustomDays          []time.Weekday `json:"custom_days"`
	WindowStart         TimeOfDay      `json:"window_start"`
	WindowEnd           TimeOfDay      `json:"window_end"`
	Enabled             bool           `json:"enabled"`
	PreferredThemes     []string       `json:"preferred_themes"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

func DefaultSchedulePreferences() *SchedulePreferences {
	return &SchedulePreferences{
		NotificationsPerDay: 3,
		Mode:                ScheduleModeAllDays,
		CustomDays:          []time.Weekday{},
		WindowStart:         NewTimeOfDay(9, 0),
		WindowEnd:           NewTimeOfDay(21, 0),
		Enabled:             true,
		PreferredThemes:     []string{},
	}
}

// Validate checks the fields that do not depend on the time window policy.
func (p *SchedulePreferences) Validate() error {
	if p.NotificationsPerDay < MinNotificationsPerDay || p.NotificationsPerDay > MaxNotificationsPerDay {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidNotificationsPerDay,
			p.NotificationsPerDay, MinNotificationsPerDay, MaxNotificationsPerDay)
	}
	if !p.Mode.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownScheduleMode, p.Mode)
	}
	for _, day := range p.CustomDays {
		if day < time.Sunday || day > time.Saturday {
			return fmt.Errorf("%w: %d", ErrInvalidWeekday, day)
		}
	}
	if !p.WindowStart.IsValid() || !p.WindowEnd.IsValid() {
		return ErrInvalidTimeOfDay
	}
	return nil
}

// ParseWeekday accepts English weekday names in any case, full or three-letter.
func ParseWeekday(name string) (time.Weekday, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if n == full || n == full[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, name)
}
