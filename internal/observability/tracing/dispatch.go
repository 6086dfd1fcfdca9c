package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const dispatchTracerName = "github.com/KasumiMercury/primind-sunset-notification/internal/service/dispatch"

func DispatchTracer() trace.Tracer {
	return otel.Tracer(dispatchTracerName)
}

func StartDispatchCycleSpan(ctx context.Context, runID string) (context.Context, trace.Span) {
	return DispatchTracer().Start(ctx, "sunset.dispatch_cycle",
		trace.WithAttributes(
			attribute.String("dispatch.run_id", runID),
		),
	)
}

func StartLocationSpan(ctx context.Context, kind string, locationID int64, city string) (context.Context, trace.Span) {
	return DispatchTracer().Start(ctx, "sunset.location",
		trace.WithAttributes(
			attribute.String("subscriber.kind", kind),
			attribute.Int64("location.id", locationID),
			attribute.String("location.city", city),
		),
	)
}

func StartDeliverySpan(ctx context.Context, channel string) (context.Context, trace.Span) {
	return DispatchTracer().Start(ctx, "sunset.delivery."+channel,
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func StartExternalAPISpan(ctx context.Context, operation, url string) (context.Context, trace.Span) {
	return DispatchTracer().Start(ctx, "sunset.external_api."+operation,
		trace.WithAttributes(
			attribute.String("url", url),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordDispatchCycleResult(span trace.Span, processed, checked, notified, skipped, failed, removed int, err error) {
	span.SetAttributes(
		attribute.Int("dispatch.processed_count", processed),
		attribute.Int("dispatch.locations_checked", checked),
		attribute.Int("dispatch.notified_count", notified),
		attribute.Int("dispatch.skipped_count", skipped),
		attribute.Int("dispatch.failed_count", failed),
		attribute.Int("dispatch.removed_count", removed),
	)
	RecordResult(span, err)
}

func RecordLocationResult(span trace.Span, score float64, minutesToSunset float64, outcome string) {
	span.SetAttributes(
		attribute.Float64("location.score", score),
		attribute.Float64("location.minutes_to_sunset", minutesToSunset),
		attribute.String("location.outcome", outcome),
	)
}

func RecordResult(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}
