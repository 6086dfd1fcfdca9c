package observability

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/KasumiMercury/primind-sunset-notification/internal/observability/logging"
)

type Config struct {
	ServiceInfo   logging.ServiceInfo
	Environment   logging.Environment
	LogLevel      slog.Leveler
	GCPProjectID  string
	SamplingRate  float64
	DefaultModule logging.Module
}

// Resources owns the logger and the telemetry providers for the process.
type Resources struct {
	logger    *slog.Logger
	shutdowns []func(context.Context) error
}

func (r *Resources) Logger() *slog.Logger {
	return r.logger
}

func (r *Resources) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(r.shutdowns) - 1; i >= 0; i-- {
		if err := r.shutdowns[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func Init(ctx context.Context, cfg Config) (*Resources, error) {
	res := &Resources{
		logger: logging.NewLogger(logging.Config{
			Service:       cfg.ServiceInfo,
			Environment:   cfg.Environment,
			Level:         cfg.LogLevel,
			DefaultModule: cfg.DefaultModule,
			GCPProjectID:  cfg.GCPProjectID,
		}),
	}

	otelRes, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.ServiceInfo.Name),
			attribute.String("service.version", cfg.ServiceInfo.Version),
			attribute.String("deployment.environment", string(cfg.Environment)),
		),
	)
	if err != nil {
		return nil, err
	}

	exporters, err := newExporters(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if exporters.trace != nil {
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporters.trace),
			sdktrace.WithResource(otelRes),
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SamplingRate))),
		)
		otel.SetTracerProvider(tp)
		res.shutdowns = append(res.shutdowns, tp.Shutdown)
	}

	if exporters.metric != nil {
		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporters.metric)),
			sdkmetric.WithResource(otelRes),
		)
		otel.SetMeterProvider(mp)
		res.shutdowns = append(res.shutdowns, mp.Shutdown)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return res, nil
}

type exporterSet struct {
	trace  sdktrace.SpanExporter
	metric sdkmetric.Exporter
}
