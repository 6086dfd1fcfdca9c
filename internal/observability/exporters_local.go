//go:build !gcloud

package observability

import (
	"context"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
)

// newExporters uses OTLP over HTTP when a collector endpoint is
// configured, and leaves the global noop providers in place otherwise.
func newExporters(ctx context.Context, _ Config) (exporterSet, error) {
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		return exporterSet{}, nil
	}

	traceExporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return exporterSet{}, err
	}

	metricExporter, err := otlpmetrichttp.New(ctx)
	if err != nil {
		return exporterSet{}, err
	}

	return exporterSet{trace: traceExporter, metric: metricExporter}, nil
}
