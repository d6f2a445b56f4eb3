package domain

import (
	"time"

	"github.com/google/uuid"
)

type DeliveryStatus string

const (
	DeliveryStatusDelivered DeliveryStatus = "delivered"
	DeliveryStatusOpened    DeliveryStatus = "opened"
	DeliveryStatusDismissed DeliveryStatus = "dismissed"
)

func (s DeliveryStatus) String() string {
	return string(s)
}

func (s DeliveryStatus) IsValid() bool {
	switch s {
	case DeliveryStatusDelivered, DeliveryStatusOpened, DeliveryStatusDismissed:
		return true
	default:
		return false
	}
}

const dateBucketLayout = "2006-01-02"

// DeliveryRecord marks a content item as consumed. At most one record exists
// per ContentID until the history is reset.
type DeliveryRecord struct {
	ID          string
	ContentID   string
	DeliveredAt time.Time
	DateBucket  string
	Status      DeliveryStatus
	Tag         string
}

func NewDeliveryRecord(contentID string, deliveredAt time.Time, tag string) *DeliveryRecord {
	return &DeliveryRecord{
		ID:          uuid.NewString(),
		ContentID:   contentID,
		DeliveredAt: deliveredAt,
		DateBucket:  DateBucket(deliveredAt),
		Status:      DeliveryStatusDelivered,
		Tag:         tag,
	}
}

// DateBucket returns the calendar date of t in t's own location.
func DateBucket(t time.Time) string {
	return t.Format(dateBucketLayout)
}

func ParseDateBucket(bucket string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateBucketLayout, bucket, loc)
}
