//go:build gcloud

package deliveryrecorder

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/KasumiMercury/primind-motivation-delivery/internal/domain"
)

type bigQueryRecord struct {
	RecordedAt  time.Time `bigquery:"recorded_at"`
	DeliveredAt time.Time `bigquery:"delivered_at"`
	ContentID   string    `bigquery:"content_id"`
	Tag         string    `bigquery:"tag"`
	Outcome     string    `bigquery:"outcome"`
	Themes      []string  `bigquery:"themes"`
	UnseenLeft  int64     `bigquery:"unseen_left"`
}

type bigQueryRecorder struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
	dataset  string
	table    string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.DeliveryEventRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "delivery event recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.BigQueryProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, delivery event recording disabled")
		return NewNoopRecorder(), nil
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQueryProjectID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, delivery event recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQueryProjectID),
		)
		return NewNoopRecorder(), nil
	}

	inserter := client.Dataset(cfg.BigQueryDataset).Table(cfg.BigQueryTable).Inserter()

	slog.InfoContext(ctx, "delivery event recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQueryProjectID),
		slog.String("dataset", cfg.BigQueryDataset),
		slog.String("table", cfg.BigQueryTable),
	)

	return &bigQueryRecorder{
		client:   client,
		inserter: inserter,
		dataset:  cfg.BigQueryDataset,
		table:    cfg.BigQueryTable,
	}, nil
}

func (r *bigQueryRecorder) RecordDelivery(ctx context.Context, event domain.DeliveryEvent) error {
	record := &bigQueryRecord{
		RecordedAt:  time.Now(),
		DeliveredAt: event.DeliveredAt,
		ContentID:   event.ContentID,
		Tag:         event.Tag,
		Outcome:     event.Outcome,
		Themes:      event.Themes,
		UnseenLeft:  int64(event.UnseenLeft),
	}

	if err := r.inserter.Put(ctx, record); err != nil {
		slog.WarnContext(ctx, "failed to insert delivery event to BigQuery",
			slog.String("error", err.Error()),
			slog.String("content_id", event.ContentID),
		)
	}

	return nil
}

func (r *bigQueryRecorder) Flush(_ context.Context) error {
	return nil
}

func (r *bigQueryRecorder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
