package domain

import "context"

//go:generate mockgen -source=score_recorder.go -destination=score_recorder_mock.go -package=domain

type ScoreRecorder interface {
	RecordScores(ctx context.Context, records []ScoreRecord) error
	Flush(ctx context.Context) error
	Close() error
}
