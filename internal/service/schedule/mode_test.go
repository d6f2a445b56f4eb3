package schedule

import (
	"slices"
	"testing"
	"time"

	"github.com/KasumiMercury/primind-motivation-delivery/internal/domain"
)

func TestActiveDays(t *testing.T) {
	tests := []struct {
		name   string
		mode   domain.ScheduleMode
		custom []time.Weekday
		want   []time.Weekday
	}{
		{
			name: "all days",
			mode: domain.ScheduleModeAllDays,
			want: []time.Weekday{time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday},
		},
		{
			name: "weekdays only",
			mode: domain.ScheduleModeWeekdaysOnly,
			want: []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		},
		{
			name: "weekends only",
			mode: domain.ScheduleModeWeekendsOnly,
			want: []time.Weekday{time.Sunday, time.Saturday},
		},
		{
			name:   "custom days verbatim",
			mode:   domain.ScheduleModeCustomDays,
			custom: []time.Weekday{time.Wednesday, time.Monday},
			want:   []time.Weekday{time.Monday, time.Wednesday},
		},
		{
			name:   "empty custom set stays empty",
			mode:   domain.ScheduleModeCustomDays,
			custom: nil,
			want:   []time.Weekday{},
		},
		{
			name:   "custom days ignored for other modes",
			mode:   domain.ScheduleModeWeekendsOnly,
			custom: []time.Weekday{time.Monday},
			want:   []time.Weekday{time.Sunday, time.Saturday},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ActiveDays(tt.mode, tt.custom).Days()
			if !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
