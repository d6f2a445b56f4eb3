package domain

import (
	"context"
	"time"
)

type DeliveryEvent struct {
	ContentID   string
	Tag         string
	Outcome     string
	Themes      []string
	DeliveredAt time.Time
	UnseenLeft  int
}

// DeliveryEventRecorder ships delivery outcomes to an analytics sink.
type DeliveryEventRecorder interface {
	RecordDelivery(ctx context.Context, event DeliveryEvent) error
	Flush(ctx context.Context) error
	Close() error
}
