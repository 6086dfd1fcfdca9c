//go:build gcloud

package scorerecorder

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/KasumiMercury/primind-sunset-notification/internal/domain"
)

type bigQueryRecord struct {
	RecordedAt    time.Time `bigquery:"recorded_at"`
	RunID         string    `bigquery:"run_id"`
	SubscriberKey string    `bigquery:"subscriber_key"`
	Kind          string    `bigquery:"kind"`
	LocationID    int64     `bigquery:"location_id"`
	City          string    `bigquery:"city"`
	Sunset        time.Time `bigquery:"sunset"`
	EvaluatedAt   time.Time `bigquery:"evaluated_at"`
	Score         float64   `bigquery:"score"`
	Cloud         float64   `bigquery:"cloud"`
	Humidity      float64   `bigquery:"humidity"`
	Visibility    float64   `bigquery:"visibility"`
	Fourth        float64   `bigquery:"fourth"`
	Fifth         float64   `bigquery:"fifth"`
	FourthKind    string    `bigquery:"fourth_kind"`
	FifthKind     string    `bigquery:"fifth_kind"`
	Actionable    bool      `bigquery:"actionable"`
	Outcome       string    `bigquery:"outcome"`
}

type bigQueryRecorder struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.ScoreRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "score recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.BigQueryProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, score recording disabled")
		return NewNoopRecorder(), nil
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQueryProjectID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, score recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQueryProjectID),
		)
		return NewNoopRecorder(), nil
	}

	inserter := client.Dataset(cfg.BigQueryDataset).Table(cfg.BigQueryTable).Inserter()

	slog.InfoContext(ctx, "score recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQueryProjectID),
		slog.String("dataset", cfg.BigQueryDataset),
		slog.String("table", cfg.BigQueryTable),
	)

	return &bigQueryRecorder{
		client:   client,
		inserter: inserter,
	}, nil
}

func (r *bigQueryRecorder) RecordScores(ctx context.Context, records []domain.ScoreRecord) error {
	if len(records) == 0 {
		return nil
	}

	now := time.Now()
	rows := make([]*bigQueryRecord, 0, len(records))
	for _, record := range records {
		c := record.Score.Components
		rows = append(rows, &bigQueryRecord{
			RecordedAt:    now,
			RunID:         record.RunID,
			SubscriberKey: record.SubscriberKey,
			Kind:          record.Kind.String(),
			LocationID:    record.LocationID,
			City:          record.City,
			Sunset:        record.Sunset,
			EvaluatedAt:   record.EvaluatedAt,
			Score:         record.Score.Value,
			Cloud:         c.Cloud,
			Humidity:      c.Humidity,
			Visibility:    c.Visibility,
			Fourth:        c.Fourth,
			Fifth:         c.Fifth,
			FourthKind:    string(c.FourthKind),
			FifthKind:     string(c.FifthKind),
			Actionable:    record.Actionable,
			Outcome:       record.Outcome,
		})
	}

	if err := r.inserter.Put(ctx, rows); err != nil {
		slog.WarnContext(ctx, "failed to insert sunset scores to BigQuery",
			slog.String("error", err.Error()),
			slog.Int("record_count", len(records)),
		)
	}

	return nil
}

func (r *bigQueryRecorder) Flush(ctx context.Context) error {
	return nil
}

func (r *bigQueryRecorder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
