package domain

import "context"

//go:generate mockgen -source=content_repository.go -destination=content_repository_mock.go -package=domain

// ContentRepository is the durable store behind the unseen pool. A successful
// InsertDelivery must be visible to the next ListDeliveredContentIDs.
type ContentRepository interface {
	ListContent(ctx context.Context) ([]*ContentItem, error)
	ListDeliveredContentIDs(ctx context.Context) ([]string, error)
	InsertDelivery(ctx context.Context, record *DeliveryRecord) error
	DeleteAllDeliveries(ctx context.Context) error
	InsertContent(ctx context.Context, items []*ContentItem) (int, error)
	ListDeliveries(ctx context.Context, limit int) ([]*DeliveryRecord, error)
	UpdateDeliveryStatus(ctx context.Context, contentID string, status DeliveryStatus) error
	Ping(ctx context.Context) error
}

// PreferencesRepository stores the singleton SchedulePreferences. GetPreferences
// returns the defaults when nothing has been saved yet.
type PreferencesRepository interface {
	GetPreferences(ctx context.Context) (*SchedulePreferences, error)
	SavePreferences(ctx context.Context, prefs *SchedulePreferences) error
}
