package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	dispatchMeterName = "sunset.dispatch"
)

type DispatchMetrics struct {
	locationsEvaluated metric.Int64Counter
	notifications      metric.Int64Counter
	subscribersRemoved metric.Int64Counter
	qualityScore       metric.Float64Histogram
	cycleDuration      metric.Float64Histogram
}

func NewDispatchMetrics() (*DispatchMetrics, error) {
	meter := otel.Meter(dispatchMeterName)

	locationsEvaluated, err := meter.Int64Counter(
		"sunset_locations_evaluated_total",
		metric.WithDescription("Total number of subscriber locations evaluated"),
		metric.WithUnit("{location}"),
	)
	if err != nil {
		return nil, err
	}

	notifications, err := meter.Int64Counter(
		"sunset_notifications_total",
		metric.WithDescription("Total number of notification delivery attempts"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	subscribersRemoved, err := meter.Int64Counter(
		"sunset_subscribers_removed_total",
		metric.WithDescription("Total number of push subscribers removed after the endpoint was gone"),
		metric.WithUnit("{subscriber}"),
	)
	if err != nil {
		return nil, err
	}

	qualityScore, err := meter.Float64Histogram(
		"sunset_quality_score",
		metric.WithDescription("Distribution of computed sunset quality scores"),
		metric.WithUnit("1"),
		metric.WithExplicitBucketBoundaries(
			10, 20, 30, 40, 50, 60, 70, 80, 90, 100,
		),
	)
	if err != nil {
		return nil, err
	}

	cycleDuration, err := meter.Float64Histogram(
		"sunset_dispatch_cycle_duration_seconds",
		metric.WithDescription("Dispatch cycle duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120,
		),
	)
	if err != nil {
		return nil, err
	}

	return &DispatchMetrics{
		locationsEvaluated: locationsEvaluated,
		notifications:      notifications,
		subscribersRemoved: subscribersRemoved,
		qualityScore:       qualityScore,
		cycleDuration:      cycleDuration,
	}, nil
}

func (m *DispatchMetrics) RecordLocationEvaluated(ctx context.Context, kind, outcome string) {
	m.locationsEvaluated.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
	))
}

func (m *DispatchMetrics) RecordNotification(ctx context.Context, channel, outcome string) {
	m.notifications.Add(ctx, 1, metric.WithAttributes(
		attribute.String("channel", channel),
		attribute.String("outcome", outcome),
	))
}

func (m *DispatchMetrics) RecordSubscriberRemoved(ctx context.Context) {
	m.subscribersRemoved.Add(ctx, 1)
}

func (m *DispatchMetrics) RecordQualityScore(ctx context.Context, score float64) {
	m.qualityScore.Record(ctx, score)
}

func (m *DispatchMetrics) RecordCycleDuration(ctx context.Context, duration time.Duration, status string) {
	m.cycleDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("status", status),
	))
}
