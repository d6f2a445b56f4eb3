package tracing

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const deliveryTracerName = "github.com/KasumiMercury/primind-motivation-delivery/internal/service/delivery"

func DeliveryTracer() trace.Tracer {
	return otel.Tracer(deliveryTracerName)
}

func StartSelectAndDeliverSpan(ctx context.Context, tag string, themeCount int) (context.Context, trace.Span) {
	return DeliveryTracer().Start(ctx, "delivery.select_and_deliver",
		trace.WithAttributes(
			attribute.String("delivery.tag", tag),
			attribute.Int("delivery.theme_count", themeCount),
		),
	)
}

func StartPlanningSpan(ctx context.Context, reason string, from time.Time) (context.Context, trace.Span) {
	return DeliveryTracer().Start(ctx, "delivery.plan",
		trace.WithAttributes(
			attribute.String("plan.reason", reason),
			attribute.String("plan.from", from.Format(time.RFC3339)),
		),
	)
}

func StartResetHistorySpan(ctx context.Context) (context.Context, trace.Span) {
	return DeliveryTracer().Start(ctx, "delivery.reset_history")
}

func StartExternalAPISpan(ctx context.Context, operation, url string) (context.Context, trace.Span) {
	return DeliveryTracer().Start(ctx, "delivery.external_api."+operation,
		trace.WithAttributes(
			attribute.String("url", url),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordSelectAndDeliverResult(span trace.Span, contentID string, exhausted bool, err error) {
	span.SetAttributes(
		attribute.String("delivery.content_id", contentID),
		attribute.Bool("delivery.exhausted", exhausted),
	)
	RecordError(span, err)
}

func RecordPlanResult(span trace.Span, outcome string, next time.Time, err error) {
	span.SetAttributes(attribute.String("plan.outcome", outcome))
	if !next.IsZero() {
		span.SetAttributes(attribute.String("plan.next", next.Format(time.RFC3339)))
	}
	RecordError(span, err)
}

func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}

// InjectToHTTPRequest propagates the span context in ctx to an outgoing request.
func InjectToHTTPRequest(ctx context.Context, req *http.Request) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
}

// ExtractFromHTTPRequest returns ctx enriched with the span context carried by req.
func ExtractFromHTTPRequest(ctx context.Context, req *http.Request) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, propagation.HeaderCarrier(req.Header))
}
