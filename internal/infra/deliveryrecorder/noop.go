package deliveryrecorder

import (
	"context"

	"github.com/KasumiMercury/primind-motivation-delivery/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.DeliveryEventRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordDelivery(_ context.Context, _ domain.DeliveryEvent) error {
	return nil
}

func (n *noopRecorder) Flush(_ context.Context) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
