package observability

import (
	"context"
	"log/slog"
	"testing"

	"go.opentelemetry.io/otel"

	"github.com/KasumiMercury/primind-motivation-delivery/internal/observability/logging"
)

func TestInit_WithoutExporters(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	ctx := context.Background()
	res, err := Init(ctx, Config{
		ServiceInfo:   logging.ServiceInfo{Name: "test", Version: "dev"},
		Environment:   logging.EnvDev,
		SamplingRate:  1.0,
		DefaultModule: logging.Module("test"),
		LogLevel:      slog.LevelWarn,
	})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	if res.Logger() == nil {
		t.Fatal("expected a logger")
	}

	_, span := otel.Tracer("test").Start(ctx, "probe")
	if !span.SpanContext().IsValid() {
		t.Error("expected the sdk tracer provider to issue valid spans")
	}
	span.End()

	if err := res.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}
