package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-sunset-notification/internal/config"
	"github.com/KasumiMercury/primind-sunset-notification/internal/domain"
	"github.com/KasumiMercury/primind-sunset-notification/internal/handler"
	"github.com/KasumiMercury/primind-sunset-notification/internal/health"
	"github.com/KasumiMercury/primind-sunset-notification/internal/infra/delivery"
	"github.com/KasumiMercury/primind-sunset-notification/internal/infra/openmeteo"
	"github.com/KasumiMercury/primind-sunset-notification/internal/infra/repository"
	"github.com/KasumiMercury/primind-sunset-notification/internal/infra/scorerecorder"
	"github.com/KasumiMercury/primind-sunset-notification/internal/observability/logging"
	"github.com/KasumiMercury/primind-sunset-notification/internal/observability/metrics"
	"github.com/KasumiMercury/primind-sunset-notification/internal/observability/middleware"
	"github.com/KasumiMercury/primind-sunset-notification/internal/scheduler"
	"github.com/KasumiMercury/primind-sunset-notification/internal/service/dispatch"
	"github.com/KasumiMercury/primind-sunset-notification/internal/service/subscription"
)

// Version is set via ldflags at build time
var Version = "dev"

const (
	serviceModule      = logging.Module("sunset-notification")
	providerHTTPTimeout = 15 * time.Second
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loadEnv()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	obs, err := initObservability(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	dispatchCfg, err := dispatch.ConfigFromSettings(cfg.Dispatch)
	if err != nil {
		slog.Error("invalid dispatch configuration", slog.String("error", err.Error()))
		return 1
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	dispatchMetrics, err := metrics.NewDispatchMetrics()
	if err != nil {
		slog.Error("failed to initialize dispatch metrics", slog.String("error", err.Error()))
		return 1
	}

	// InfluxDB locally, BigQuery in gcloud builds
	scoreRecorder, err := scorerecorder.NewRecorder(ctx, scorerecorder.LoadConfig())
	if err != nil {
		slog.Error("failed to initialize score recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := scoreRecorder.Close(); err != nil {
			slog.Warn("failed to close score recorder", slog.String("error", err.Error()))
		}
	}()

	redisClient := redis.NewClient(cfg.Redis.Options())

	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		slog.Error("failed to instrument redis tracing",
			slog.String("event", "redis.otel.tracing.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		slog.Error("failed to instrument redis metrics",
			slog.String("event", "redis.otel.metrics.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis",
			slog.String("event", "redis.connect.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Warn("failed to close redis client", slog.String("error", err.Error()))
		}
	}()

	slog.Info("redis connected",
		slog.String("addr", cfg.Redis.Addr),
	)

	subscriberRepo := repository.NewSubscriberRepository(redisClient)
	ledger := repository.NewNotificationLedger(redisClient)

	providerHTTPClient := &http.Client{Timeout: providerHTTPTimeout}
	openMeteo := openmeteo.NewClient(
		openmeteo.Endpoints{
			ForecastURL:   cfg.Providers.ForecastURL,
			AirQualityURL: cfg.Providers.AirQualityURL,
			GeocodingURL:  cfg.Providers.GeocodingURL,
		},
		openmeteo.NewTransport("open-meteo", providerHTTPClient, openmeteo.BackoffConfig{
			MaxRetries:      cfg.Providers.MaxRetries,
			InitialInterval: cfg.Providers.BackoffInitial,
			MaxInterval:     cfg.Providers.BackoffMax,
		}, float64(cfg.Providers.RatePerSecond), cfg.Providers.Burst),
	)

	pushSender, emailSender := newSenders(cfg.Delivery, dispatchCfg.DeliveryTimeout)

	dispatchService, err := dispatch.NewService(
		subscriberRepo,
		ledger,
		openMeteo,
		openMeteo,
		pushSender,
		emailSender,
		scoreRecorder,
		dispatchMetrics,
		dispatchCfg,
	)
	if err != nil {
		slog.Error("failed to initialize dispatch service", slog.String("error", err.Error()))
		return 1
	}

	cycleScheduler, err := scheduler.New(cfg.Schedule, dispatchService)
	if err != nil {
		slog.Error("failed to initialize scheduler", slog.String("error", err.Error()))
		return 1
	}
	cycleScheduler.Start()
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), cfg.Schedule.CycleTimeout)
		defer stopCancel()
		if err := cycleScheduler.Stop(stopCtx); err != nil {
			slog.Warn("scheduler stop interrupted", slog.String("error", err.Error()))
		}
	}()

	subscriptionService := subscription.NewService(subscriberRepo, openMeteo)

	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:   []string{"/health", "/health/live", "/health/ready"},
		Module:      serviceModule,
		TracerName:  "github.com/KasumiMercury/primind-sunset-notification/internal/observability/middleware",
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	healthChecker := health.NewChecker(redisClient, cycleScheduler, Version)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	handler.RegisterRoutes(r,
		handler.NewDispatchHandler(cycleScheduler),
		handler.NewSubscriptionHandler(subscriptionService),
	)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.String("dispatch_schedule", cfg.Schedule.Spec),
			slog.Bool("scheduler_enabled", cfg.Schedule.Enabled),
			slog.Float64("score_threshold", dispatchCfg.Window.Threshold),
			slog.Duration("notify_window", dispatchCfg.Window.Lead),
			slog.Bool("push_enabled", cfg.Delivery.PushEnabled()),
			slog.Bool("email_enabled", cfg.Delivery.EmailEnabled()),
		)
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}

// newSenders falls back to logging senders for channels without credentials.
func newSenders(cfg *config.DeliveryConfig, timeout time.Duration) (domain.PushSender, domain.EmailSender) {
	var push domain.PushSender = delivery.LogPushSender{}
	if cfg.PushEnabled() {
		push = delivery.NewWebPushSender(delivery.VAPIDConfig{
			PublicKey:  cfg.VAPIDPublicKey,
			PrivateKey: cfg.VAPIDPrivateKey,
			Subject:    cfg.VAPIDSubject,
			TTLSeconds: cfg.PushTTLSeconds,
		}, &http.Client{Timeout: timeout})
	} else {
		slog.Warn("VAPID keys not set, push notifications are only logged")
	}

	var email domain.EmailSender = delivery.LogEmailSender{}
	if cfg.EmailEnabled() {
		email = delivery.NewMailjetSender(delivery.MailjetConfig{
			PublicKey:  cfg.MailjetPublicKey,
			PrivateKey: cfg.MailjetPrivateKey,
			Sender:     cfg.EmailSender,
			SenderName: cfg.EmailSenderName,
			Timeout:    timeout,
		})
	} else {
		slog.Warn("Mailjet keys not set, email notifications are only logged")
	}

	return push, email
}
