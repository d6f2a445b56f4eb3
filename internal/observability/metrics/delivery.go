package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	deliveryMeterName = "delivery.service"
)

type DeliveryMetrics struct {
	deliveries               metric.Int64Counter
	selectAndDeliverDuration metric.Float64Histogram
	lockWaitDuration         metric.Float64Histogram
	plans                    metric.Int64Counter
	historyResets            metric.Int64Counter
	unseenPool               metric.Int64Gauge
}

func NewDeliveryMetrics() (*DeliveryMetrics, error) {
	meter := otel.Meter(deliveryMeterName)

	deliveries, err := meter.Int64Counter(
		"delivery_deliveries_total",
		metric.WithDescription("Total number of select-and-deliver attempts by outcome"),
		metric.WithUnit("{delivery}"),
	)
	if err != nil {
		return nil, err
	}

	selectAndDeliverDuration, err := meter.Float64Histogram(
		"delivery_select_and_deliver_duration_seconds",
		metric.WithDescription("Time spent inside the select-and-record critical section"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1,
		),
	)
	if err != nil {
		return nil, err
	}

	lockWaitDuration, err := meter.Float64Histogram(
		"delivery_lock_wait_duration_seconds",
		metric.WithDescription("Time spent waiting for the delivery lock"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1, 5,
		),
	)
	if err != nil {
		return nil, err
	}

	plans, err := meter.Int64Counter(
		"delivery_plans_total",
		metric.WithDescription("Total number of scheduler planning passes by outcome"),
		metric.WithUnit("{plan}"),
	)
	if err != nil {
		return nil, err
	}

	historyResets, err := meter.Int64Counter(
		"delivery_history_resets_total",
		metric.WithDescription("Total number of delivery history resets"),
		metric.WithUnit("{reset}"),
	)
	if err != nil {
		return nil, err
	}

	unseenPool, err := meter.Int64Gauge(
		"delivery_unseen_pool_size",
		metric.WithDescription("Number of content items not yet delivered"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, err
	}

	return &DeliveryMetrics{
		deliveries:               deliveries,
		selectAndDeliverDuration: selectAndDeliverDuration,
		lockWaitDuration:         lockWaitDuration,
		plans:                    plans,
		historyResets:            historyResets,
		unseenPool:               unseenPool,
	}, nil
}

func (m *DeliveryMetrics) RecordDelivery(ctx context.Context, tag, outcome string) {
	m.deliveries.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tag", tag),
		attribute.String("outcome", outcome),
	))
}

func (m *DeliveryMetrics) RecordSelectAndDeliverDuration(ctx context.Context, tag string, duration time.Duration) {
	m.selectAndDeliverDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("tag", tag),
	))
}

func (m *DeliveryMetrics) RecordLockWait(ctx context.Context, duration time.Duration) {
	m.lockWaitDuration.Record(ctx, duration.Seconds())
}

func (m *DeliveryMetrics) RecordPlan(ctx context.Context, reason, outcome string) {
	m.plans.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
		attribute.String("outcome", outcome),
	))
}

func (m *DeliveryMetrics) RecordHistoryReset(ctx context.Context) {
	m.historyResets.Add(ctx, 1)
}

func (m *DeliveryMetrics) RecordUnseenPoolSize(ctx context.Context, size int) {
	m.unseenPool.Record(ctx, int64(size))
}
