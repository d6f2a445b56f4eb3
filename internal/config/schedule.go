package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	scheduleTimezoneEnv    = "SCHEDULE_TIMEZONE"
	replanIntervalHoursEnv = "REPLAN_INTERVAL_HOURS"
	minIntervalMinutesEnv  = "MIN_INTERVAL_MINUTES"

	defaultReplanIntervalHours = 24
	defaultMinIntervalMinutes  = 30
)

type ScheduleConfig struct {
	// Location is the zone of the user's local day. Defaults to time.Local.
	Location       *time.Location
	ReplanInterval time.Duration
	MinInterval    time.Duration
}

func LoadScheduleConfig() (*ScheduleConfig, error) {
	loc := time.Local
	if name := os.Getenv(scheduleTimezoneEnv); name != "" {
		parsed, err := time.LoadLocation(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
		}
		loc = parsed
	}

	replanHours, err := positiveIntEnv(replanIntervalHoursEnv, defaultReplanIntervalHours)
	if err != nil {
		return nil, err
	}

	minInterval, err := positiveIntEnv(minIntervalMinutesEnv, defaultMinIntervalMinutes)
	if err != nil {
		return nil, err
	}

	return &ScheduleConfig{
		Location:       loc,
		ReplanInterval: time.Duration(replanHours) * time.Hour,
		MinInterval:    time.Duration(minInterval) * time.Minute,
	}, nil
}

func positiveIntEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed <= 0 {
		return 0, fmt.Errorf("%s: %w", key, ErrInvalidPositiveInt)
	}
	return parsed, nil
}
