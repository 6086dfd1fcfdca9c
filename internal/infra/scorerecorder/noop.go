package scorerecorder

import (
	"context"

	"github.com/KasumiMercury/primind-sunset-notification/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.ScoreRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordScores(_ context.Context, _ []domain.ScoreRecord) error {
	return nil
}

func (n *noopRecorder) Flush(_ context.Context) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
