package repository

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/KasumiMercury/primind-motivation-delivery/internal/domain"
)

type contentRecord struct {
	ID       string   `json:"id"`
	Body     string   `json:"body"`
	Author   string   `json:"author"`
	Themes   []string `json:"themes"`
	ImageRef string   `json:"image_ref,omitempty"`
	Source   string   `json:"source,omitempty"`
	License  string   `json:"license,omitempty"`
}

type deliveryRecord struct {
	ID          string    `json:"id"`
	ContentID   string    `json:"content_id"`
	DeliveredAt time.Time `json:"delivered_at"`
	DateBucket  string    `json:"date_bucket"`
	Status      string    `json:"status"`
	Tag         string    `json:"tag"`
}

// preferencesRecord stores weekdays by name and times as "HH:MM" so the
// persisted form stays readable.
type preferencesRecord struct {
	NotificationsPerDay int       `json:"notifications_per_day"`
	Mode                string    `json:"mode"`
	CustomDays          []string  `json:"custom_days"`
	WindowStart         string    `json:"window_start"`
	WindowEnd           string    `json:"window_end"`
	Enabled             bool      `json:"enabled"`
	PreferredThemes     []string  `json:"preferred_themes"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func toContentRecord(item *domain.ContentItem) contentRecord {
	return contentRecord{
		ID:       item.ID,
		Body:     item.Body,
		Author:   item.Author,
		Themes:   slices.Clone(item.Themes),
		ImageRef: item.Metadata.ImageRef,
		Source:   item.Metadata.Source,
		License:  item.Metadata.License,
	}
}

func (r contentRecord) toDomain() *domain.ContentItem {
	return &domain.ContentItem{
		ID:     r.ID,
		Body:   r.Body,
		Author: r.Author,
		Themes: r.Themes,
		Metadata: domain.ContentMetadata{
			ImageRef: r.ImageRef,
			Source:   r.Source,
			License:  r.License,
		},
	}
}

func toDeliveryRecord(record *domain.DeliveryRecord) deliveryRecord {
	return deliveryRecord{
		ID:          record.ID,
		ContentID:   record.ContentID,
		DeliveredAt: record.DeliveredAt,
		DateBucket:  record.DateBucket,
		Status:      record.Status.String(),
		Tag:         record.Tag,
	}
}

func (r deliveryRecord) toDomain() *domain.DeliveryRecord {
	return &domain.DeliveryRecord{
		ID:          r.ID,
		ContentID:   r.ContentID,
		DeliveredAt: r.DeliveredAt,
		DateBucket:  r.DateBucket,
		Status:      domain.DeliveryStatus(r.Status),
		Tag:         r.Tag,
	}
}

func toPreferencesRecord(prefs *domain.SchedulePreferences) preferencesRecord {
	days := make([]string, 0, len(prefs.CustomDays))
	for _, d := range prefs.CustomDays {
		days = append(days, d.String())
	}

	return preferencesRecord{
		NotificationsPerDay: prefs.NotificationsPerDay,
		Mode:                prefs.Mode.String(),
		CustomDays:          days,
		WindowStart:         prefs.WindowStart.String(),
		WindowEnd:           prefs.WindowEnd.String(),
		Enabled:             prefs.Enabled,
		PreferredThemes:     slices.Clone(prefs.PreferredThemes),
		UpdatedAt:           prefs.UpdatedAt,
	}
}

func (r preferencesRecord) toDomain() (*domain.SchedulePreferences, error) {
	days := make([]time.Weekday, 0, len(r.CustomDays))
	for _, name := range r.CustomDays {
		d, err := domain.ParseWeekday(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPreferencesData, err)
		}
		days = append(days, d)
	}

	start, err := domain.ParseTimeOfDay(r.WindowStart)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPreferencesData, err)
	}
	end, err := domain.ParseTimeOfDay(r.WindowEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPreferencesData, err)
	}

	themes := r.PreferredThemes
	if themes == nil {
		themes = []string{}
	}

	return &domain.SchedulePreferences{
		NotificationsPerDay: r.NotificationsPerDay,
		Mode:                domain.ScheduleMode(r.Mode),
		CustomDays:          days,
		WindowStart:         start,
		WindowEnd:           end,
		Enabled:             r.Enabled,
		PreferredThemes:     themes,
		UpdatedAt:           r.UpdatedAt,
	}, nil
}

func sortContentByID(items []*domain.ContentItem) {
	slices.SortFunc(items, func(a, b *domain.ContentItem) int {
		return strings.Compare(a.ID, b.ID)
	})
}

// sortNewestFirst orders delivery records by DeliveredAt descending.
func sortNewestFirst(records []*domain.DeliveryRecord) {
	slices.SortFunc(records, func(a, b *domain.DeliveryRecord) int {
		return b.DeliveredAt.Compare(a.DeliveredAt)
	})
}
