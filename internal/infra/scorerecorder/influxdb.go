//go:build !gcloud

package scorerecorder

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/KasumiMercury/primind-sunset-notification/internal/domain"
)

const scoreMeasurement = "sunset_score"

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.ScoreRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "score recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, score recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)
	writeAPI := client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket)

	slog.InfoContext(ctx, "score recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: writeAPI,
		bucket:   cfg.InfluxDBBucket,
	}, nil
}

func scorePoint(record domain.ScoreRecord) *write.Point {
	runID := record.RunID
	if runID == "" {
		runID = "default"
	}

	evaluatedAt := record.EvaluatedAt
	if evaluatedAt.IsZero() {
		evaluatedAt = time.Now()
	}

	c := record.Score.Components
	return influxdb2.NewPoint(
		scoreMeasurement,
		map[string]string{
			"run_id":      runID,
			"kind":        record.Kind.String(),
			"location_id": strconv.FormatInt(record.LocationID, 10),
			"city":        record.City,
			"outcome":     record.Outcome,
		},
		map[string]any{
			"subscriber_key": record.SubscriberKey,
			"score":          record.Score.Value,
			"cloud":          c.Cloud,
			"humidity":       c.Humidity,
			"visibility":     c.Visibility,
			"fourth":         c.Fourth,
			"fifth":          c.Fifth,
			"fourth_kind":    string(c.FourthKind),
			"fifth_kind":     string(c.FifthKind),
			"actionable":     record.Actionable,
			"sunset_unix":    record.Sunset.Unix(),
		},
		evaluatedAt,
	)
}

func (r *influxDBRecorder) RecordScores(ctx context.Context, records []domain.ScoreRecord) error {
	if len(records) == 0 {
		return nil
	}

	points := make([]*write.Point, 0, len(records))
	for _, record := range records {
		points = append(points, scorePoint(record))
	}

	if err := r.writeAPI.WritePoint(ctx, points...); err != nil {
		slog.WarnContext(ctx, "failed to write sunset scores to InfluxDB",
			slog.String("error", err.Error()),
			slog.Int("record_count", len(records)),
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
