//go:build !gcloud

package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/KasumiMercury/primind-sunset-notification/internal/observability/logging"
)

func TestInitWithoutCollector(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	res, err := Init(context.Background(), Config{
		ServiceInfo:   logging.ServiceInfo{Name: "sunset", Version: "test"},
		Environment:   logging.EnvDev,
		LogLevel:      slog.LevelInfo,
		SamplingRate:  1.0,
		DefaultModule: logging.Module("test"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Logger() == nil {
		t.Fatal("expected a logger")
	}
	if err := res.Shutdown(context.Background()); err != nil {
		t.Errorf("unexpected shutdown error: %v", err)
	}
}
