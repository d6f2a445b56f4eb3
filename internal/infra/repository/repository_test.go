package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KasumiMercury/primind-motivation-delivery/internal/domain"
)

type store interface {
	domain.ContentRepository
	domain.PreferencesRepository
}

var baseTime = time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)

func seedContent(t *testing.T, ctx context.Context, s store) {
	t.Helper()

	items := []*domain.ContentItem{
		{ID: "b", Body: "Small steps count.", Author: "A", Themes: []string{"focus"}},
		{ID: "a", Body: "Rest is part of the work.", Author: "B", Themes: []string{"rest", "health"},
			Metadata: domain.ContentMetadata{Source: "seed", License: "CC0"}},
		{ID: "c", Body: "Start before you feel ready.", Author: "C"},
	}
	added, err := s.InsertContent(ctx, items)
	if err != nil {
		t.Fatalf("InsertContent: %v", err)
	}
	if added != 3 {
		t.Fatalf("added: got %d, want 3", added)
	}
}

func testContentRoundTrip(t *testing.T, s store) {
	ctx := context.Background()
	seedContent(t, ctx, s)

	items, err := s.ListContent(ctx)
	if err != nil {
		t.Fatalf("ListContent: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("items: got %d, want 3", len(items))
	}
	if items[0].ID != "a" || items[1].ID != "b" || items[2].ID != "c" {
		t.Errorf("expected items ordered by id, got %s %s %s", items[0].ID, items[1].ID, items[2].ID)
	}
	if len(items[0].Themes) != 2 || items[0].Themes[1] != "health" {
		t.Errorf("themes: got %v", items[0].Themes)
	}
	if items[0].Metadata.License != "CC0" {
		t.Errorf("license: got %q, want CC0", items[0].Metadata.License)
	}

	added, err := s.InsertContent(ctx, []*domain.ContentItem{
		{ID: "a", Body: "Rest, then return.", Author: "B"},
		{ID: "d", Body: "Done is better than perfect."},
	})
	if err != nil {
		t.Fatalf("InsertContent: %v", err)
	}
	if added != 1 {
		t.Errorf("added on second insert: got %d, want 1", added)
	}

	items, err = s.ListContent(ctx)
	if err != nil {
		t.Fatalf("ListContent: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("items: got %d, want 4", len(items))
	}
	if items[0].Body != "Rest is part of the work." {
		t.Errorf("expected existing body to be kept, got %q", items[0].Body)
	}
}

func testReseedKeepsDeliveredContent(t *testing.T, s store) {
	ctx := context.Background()
	seedContent(t, ctx, s)

	if err := s.InsertDelivery(ctx, domain.NewDeliveryRecord("a", baseTime, "scheduled")); err != nil {
		t.Fatalf("InsertDelivery: %v", err)
	}

	added, err := s.InsertContent(ctx, []*domain.ContentItem{
		{ID: "a", Body: "rewritten", Author: "Z", Themes: []string{"other"}},
		{ID: "b", Body: "rewritten"},
		{ID: "c", Body: "rewritten"},
	})
	if err != nil {
		t.Fatalf("InsertContent: %v", err)
	}
	if added != 0 {
		t.Errorf("added on reseed: got %d, want 0", added)
	}

	items, err := s.ListContent(ctx)
	if err != nil {
		t.Fatalf("ListContent: %v", err)
	}
	want := map[string]string{
		"a": "Rest is part of the work.",
		"b": "Small steps count.",
		"c": "Start before you feel ready.",
	}
	for _, item := range items {
		if item.Body != want[item.ID] {
			t.Errorf("item %s body: got %q, want %q", item.ID, item.Body, want[item.ID])
		}
	}
	if items[0].Author != "B" || len(items[0].Themes) != 2 {
		t.Errorf("item a changed on reseed: %+v", items[0])
	}

	ids, err := s.ListDeliveredContentIDs(ctx)
	if err != nil {
		t.Fatalf("ListDeliveredContentIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != "a" {
		t.Errorf("delivered ids: got %v, want [a]", ids)
	}
}

func testDeliveryAtMostOnce(t *testing.T, s store) {
	ctx := context.Background()
	seedContent(t, ctx, s)

	first := domain.NewDeliveryRecord("a", baseTime, "scheduled")
	if err := s.InsertDelivery(ctx, first); err != nil {
		t.Fatalf("InsertDelivery: %v", err)
	}

	second := domain.NewDeliveryRecord("a", baseTime.Add(time.Hour), "manual")
	if err := s.InsertDelivery(ctx, second); !errors.Is(err, domain.ErrAlreadyDelivered) {
		t.Errorf("expected ErrAlreadyDelivered, got %v", err)
	}

	ids, err := s.ListDeliveredContentIDs(ctx)
	if err != nil {
		t.Fatalf("ListDeliveredContentIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != "a" {
		t.Errorf("delivered ids: got %v, want [a]", ids)
	}
}

func testListDeliveries(t *testing.T, s store) {
	ctx := context.Background()
	seedContent(t, ctx, s)

	for i, id := range []string{"a", "b", "c"} {
		record := domain.NewDeliveryRecord(id, baseTime.Add(time.Duration(i)*time.Hour), "scheduled")
		if err := s.InsertDelivery(ctx, record); err != nil {
			t.Fatalf("InsertDelivery(%s): %v", id, err)
		}
	}

	tests := []struct {
		name    string
		limit   int
		wantIDs []string
	}{
		{name: "no limit", limit: 0, wantIDs: []string{"c", "b", "a"}},
		{name: "limited", limit: 2, wantIDs: []string{"c", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := s.ListDeliveries(ctx, tt.limit)
			if err != nil {
				t.Fatalf("ListDeliveries: %v", err)
			}
			if len(records) != len(tt.wantIDs) {
				t.Fatalf("records: got %d, want %d", len(records), len(tt.wantIDs))
			}
			for i, want := range tt.wantIDs {
				if records[i].ContentID != want {
					t.Errorf("records[%d]: got %s, want %s", i, records[i].ContentID, want)
				}
				if records[i].Status != domain.DeliveryStatusDelivered {
					t.Errorf("records[%d].Status: got %s", i, records[i].Status)
				}
			}
		})
	}
}

func testUpdateDeliveryStatus(t *testing.T, s store) {
	ctx := context.Background()
	seedContent(t, ctx, s)

	if err := s.InsertDelivery(ctx, domain.NewDeliveryRecord("a", baseTime, "scheduled")); err != nil {
		t.Fatalf("InsertDelivery: %v", err)
	}

	tests := []struct {
		name      string
		contentID string
		status    domain.DeliveryStatus
		wantErr   error
	}{
		{name: "opened", contentID: "a", status: domain.DeliveryStatusOpened},
		{name: "dismissed", contentID: "a", status: domain.DeliveryStatusDismissed},
		{name: "unknown content", contentID: "zzz", status: domain.DeliveryStatusOpened, wantErr: domain.ErrDeliveryNotFound},
		{name: "invalid status", contentID: "a", status: "archived", wantErr: domain.ErrInvalidDeliveryStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.UpdateDeliveryStatus(ctx, tt.contentID, tt.status)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("UpdateDeliveryStatus: %v", err)
			}

			records, err := s.ListDeliveries(ctx, 0)
			if err != nil {
				t.Fatalf("ListDeliveries: %v", err)
			}
			if records[0].Status != tt.status {
				t.Errorf("status: got %s, want %s", records[0].Status, tt.status)
			}
		})
	}
}

func testDeleteAllDeliveries(t *testing.T, s store) {
	ctx := context.Background()
	seedContent(t, ctx, s)

	for _, id := range []string{"a", "b"} {
		if err := s.InsertDelivery(ctx, domain.NewDeliveryRecord(id, baseTime, "scheduled")); err != nil {
			t.Fatalf("InsertDelivery: %v", err)
		}
	}

	if err := s.DeleteAllDeliveries(ctx); err != nil {
		t.Fatalf("DeleteAllDeliveries: %v", err)
	}

	ids, err := s.ListDeliveredContentIDs(ctx)
	if err != nil {
		t.Fatalf("ListDeliveredContentIDs: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("delivered ids after reset: got %v", ids)
	}

	items, err := s.ListContent(ctx)
	if err != nil {
		t.Fatalf("ListContent: %v", err)
	}
	if len(items) != 3 {
		t.Errorf("content must survive a reset, got %d items", len(items))
	}

	if err := s.InsertDelivery(ctx, domain.NewDeliveryRecord("a", baseTime, "scheduled")); err != nil {
		t.Errorf("re-delivery after reset: %v", err)
	}
}

func testPreferences(t *testing.T, s store) {
	ctx := context.Background()

	prefs, err := s.GetPreferences(ctx)
	if err != nil {
		t.Fatalf("GetPreferences: %v", err)
	}
	if prefs.NotificationsPerDay != 3 || !prefs.Enabled {
		t.Errorf("expected defaults before first save, got %+v", prefs)
	}

	want := &domain.SchedulePreferences{
		NotificationsPerDay: 5,
		Mode:                domain.ScheduleModeCustomDays,
		CustomDays:          []time.Weekday{time.Monday, time.Thursday},
		WindowStart:         domain.NewTimeOfDay(7, 30),
		WindowEnd:           domain.NewTimeOfDay(22, 0),
		Enabled:             false,
		PreferredThemes:     []string{"focus"},
		UpdatedAt:           baseTime,
	}
	if err := s.SavePreferences(ctx, want); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}

	got, err := s.GetPreferences(ctx)
	if err != nil {
		t.Fatalf("GetPreferences: %v", err)
	}
	if got.NotificationsPerDay != 5 || got.Mode != domain.ScheduleModeCustomDays || got.Enabled {
		t.Errorf("unexpected preferences: %+v", got)
	}
	if len(got.CustomDays) != 2 || got.CustomDays[0] != time.Monday || got.CustomDays[1] != time.Thursday {
		t.Errorf("custom days: got %v", got.CustomDays)
	}
	if got.WindowStart != want.WindowStart || got.WindowEnd != want.WindowEnd {
		t.Errorf("window: got %s-%s, want %s-%s", got.WindowStart, got.WindowEnd, want.WindowStart, want.WindowEnd)
	}
	if len(got.PreferredThemes) != 1 || got.PreferredThemes[0] != "focus" {
		t.Errorf("themes: got %v", got.PreferredThemes)
	}
	if !got.UpdatedAt.Equal(baseTime) {
		t.Errorf("updated_at: got %v, want %v", got.UpdatedAt, baseTime)
	}

	want.Enabled = true
	if err := s.SavePreferences(ctx, want); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}
	got, err = s.GetPreferences(ctx)
	if err != nil {
		t.Fatalf("GetPreferences: %v", err)
	}
	if !got.Enabled {
		t.Error("expected the second save to overwrite the first")
	}
}
