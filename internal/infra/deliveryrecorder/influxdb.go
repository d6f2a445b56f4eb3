//go:build !gcloud

package deliveryrecorder

import (
	"context"
	"log/slog"
	"strings"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/KasumiMercury/primind-motivation-delivery/internal/domain"
)

const measurementDelivery = "motivation_delivery"

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
	org      string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.DeliveryEventRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "delivery event recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, delivery event recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)
	writeAPI := client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket)

	slog.InfoContext(ctx, "delivery event recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: writeAPI,
		bucket:   cfg.InfluxDBBucket,
		org:      cfg.InfluxDBOrg,
	}, nil
}

func newDeliveryPoint(event domain.DeliveryEvent) *write.Point {
	return influxdb2.NewPoint(
		measurementDelivery,
		map[string]string{
			"tag":     event.Tag,
			"outcome": event.Outcome,
		},
		map[string]any{
			"content_id":  event.ContentID,
			"themes":      strings.Join(event.Themes, ","),
			"unseen_left": event.UnseenLeft,
		},
		event.DeliveredAt,
	)
}

func (r *influxDBRecorder) RecordDelivery(ctx context.Context, event domain.DeliveryEvent) error {
	if err := r.writeAPI.WritePoint(ctx, newDeliveryPoint(event)); err != nil {
		slog.WarnContext(ctx, "failed to write delivery event to InfluxDB",
			slog.String("error", err.Error()),
			slog.String("content_id", event.ContentID),
			slog.String("outcome", event.Outcome),
		)
	}

	return nil
}

func (r *influxDBRecorder) Flush(ctx context.Context) error {
	return r.writeAPI.Flush(ctx)
}

func (r *influxDBRecorder) Close() error {
	if r.client != nil {
		r.client.Close()
	}
	return nil
}
