package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/KasumiMercury/primind-sunset-notification/internal/config"
	"github.com/KasumiMercury/primind-sunset-notification/internal/domain"
	"github.com/KasumiMercury/primind-sunset-notification/internal/observability/metrics"
	"github.com/KasumiMercury/primind-sunset-notification/internal/observability/tracing"
	"github.com/KasumiMercury/primind-sunset-notification/internal/service/alignment"
	"github.com/KasumiMercury/primind-sunset-notification/internal/service/scoring"
	"github.com/KasumiMercury/primind-sunset-notification/internal/service/window"
)

const civilDateLayout = "2006-01-02"

// Service runs dispatch cycles: for every stored subscriber location it
// fetches conditions, scores them, gates on the notification window and
// delivers, removing push subscribers whose endpoint is gone.
type Service struct {
	repo       domain.SubscriberRepository
	ledger     domain.NotificationLedger
	weather    domain.WeatherProvider
	airQuality domain.AirQualityProvider
	push       domain.PushSender
	email      domain.EmailSender
	recorder   domain.ScoreRecorder
	metrics    *metrics.DispatchMetrics

	engine *scoring.Engine
	cfg    Config

	now      func() time.Time
	newRunID func() string
}

func NewService(
	repo domain.SubscriberRepository,
	ledger domain.NotificationLedger,
	weather domain.WeatherProvider,
	airQuality domain.AirQualityProvider,
	push domain.PushSender,
	email domain.EmailSender,
	recorder domain.ScoreRecorder,
	dispatchMetrics *metrics.DispatchMetrics,
	cfg Config,
) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	engine, err := scoring.NewEngine(cfg.Scoring)
	if err != nil {
		return nil, err
	}

	return &Service{
		repo:       repo,
		ledger:     ledger,
		weather:    weather,
		airQuality: airQuality,
		push:       push,
		email:      email,
		recorder:   recorder,
		metrics:    dispatchMetrics,
		engine:     engine,
		cfg:        cfg,
		now:        time.Now,
		newRunID:   uuid.NewString,
	}, nil
}

// RunCycle evaluates every stored subscriber once. Only storage failures
// are returned; provider and delivery failures stay local to their location.
func (s *Service) RunCycle(ctx context.Context) (result *CycleResult, err error) {
	start := s.now()
	runID := s.newRunID()

	ctx, span := tracing.StartDispatchCycleSpan(ctx, runID)
	defer span.End()

	t := &tally{}
	defer func() {
		res, _ := t.snapshot()
		res.RunID = runID
		tracing.RecordDispatchCycleResult(span, res.ProcessedCount, res.LocationsChecked,
			res.Notified, res.Skipped, res.DeliveryFailed, res.Removed, err)

		status := "success"
		if err != nil {
			status = "error"
		}
		if s.metrics != nil {
			s.metrics.RecordCycleDuration(ctx, s.now().Sub(start), status)
		}
	}()

	slog.InfoContext(ctx, "dispatch cycle started",
		slog.String("run_id", runID),
	)

	subscribers, err := s.loadSubscribers(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load subscribers",
			slog.String("run_id", runID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	var g errgroup.Group
	g.SetLimit(s.cfg.Workers)

	for _, sub := range subscribers {
		g.Go(func() error {
			return s.processSubscriber(ctx, runID, sub, t)
		})
	}

	err = g.Wait()

	res, records := t.snapshot()
	res.RunID = runID
	s.recordScores(ctx, records)

	if err != nil {
		slog.ErrorContext(ctx, "dispatch cycle failed",
			slog.String("run_id", runID),
			slog.String("error", err.Error()),
		)
		return &res, err
	}

	slog.InfoContext(ctx, "dispatch cycle completed",
		slog.String("run_id", runID),
		slog.Int("processed_count", res.ProcessedCount),
		slog.Int("locations_checked", res.LocationsChecked),
		slog.Int("notified", res.Notified),
		slog.Int("already_notified", res.AlreadyNotified),
		slog.Int("skipped", res.Skipped),
		slog.Int("delivery_failed", res.DeliveryFailed),
		slog.Int("removed", res.Removed),
		slog.Duration("duration", s.now().Sub(start)),
	)

	return &res, nil
}

func (s *Service) loadSubscribers(ctx context.Context) ([]*domain.Subscriber, error) {
	migrated, err := s.repo.MigrateLegacyKeys(ctx)
	if err != nil {
		return nil, asStorageError(err)
	}
	if migrated > 0 {
		slog.InfoContext(ctx, "migrated legacy subscriber keys",
			slog.Int("migrated_count", migrated),
		)
	}

	var keys []string
	for _, prefix := range s.cfg.KeyPrefixes {
		found, err := s.repo.ListKeys(ctx, prefix)
		if err != nil {
			return nil, asStorageError(err)
		}
		keys = append(keys, found...)
	}

	if len(keys) == 0 {
		return nil, nil
	}

	loaded, err := s.repo.MultiGet(ctx, keys)
	if err != nil {
		return nil, asStorageError(err)
	}

	subscribers := make([]*domain.Subscriber, 0, len(loaded))
	for _, sub := range loaded {
		if sub != nil {
			subscribers = append(subscribers, sub)
		}
	}
	return subscribers, nil
}

func (s *Service) processSubscriber(ctx context.Context, runID string, sub *domain.Subscriber, t *tally) error {
	defer t.subscriberProcessed()

	for _, loc := range sub.Locations {
		outcome, err := s.processLocation(ctx, runID, sub, loc, t)
		if err != nil {
			return err
		}
		if outcome == OutcomeRemoved {
			return nil
		}
	}
	return nil
}

func (s *Service) processLocation(ctx context.Context, runID string, sub *domain.Subscriber, loc domain.Location, t *tally) (outcome Outcome, err error) {
	ctx, span := tracing.StartLocationSpan(ctx, sub.Kind.String(), loc.ID, loc.City)
	defer span.End()

	var record *domain.ScoreRecord
	var actionable bool
	var minutesToSunset float64

	defer func() {
		if err == nil {
			t.add(outcome, actionable, record)
			if s.metrics != nil {
				s.metrics.RecordLocationEvaluated(ctx, sub.Kind.String(), outcome.String())
			}
		}
		score := 0.0
		if record != nil {
			score = record.Score.Value
		}
		tracing.RecordLocationResult(span, score, minutesToSunset, outcome.String())
		tracing.RecordResult(span, err)
	}()

	eval, evalErr := s.evaluate(ctx, loc)
	if evalErr != nil {
		slog.WarnContext(ctx, "skipping location",
			slog.String("run_id", runID),
			slog.String("subscriber_key", sub.Key),
			slog.Int64("location_id", loc.ID),
			slog.String("city", loc.City),
			slog.Bool("incomplete_data", errors.Is(evalErr, domain.ErrProviderDataIncomplete)),
			slog.String("error", evalErr.Error()),
		)
		return OutcomeSkipped, nil
	}

	actionable = eval.actionable
	minutesToSunset = eval.minutesToSunset
	record = &domain.ScoreRecord{
		RunID:         runID,
		SubscriberKey: sub.Key,
		Kind:          sub.Kind,
		LocationID:    loc.ID,
		City:          loc.City,
		Sunset:        eval.sunset,
		EvaluatedAt:   eval.evaluatedAt,
		Score:         eval.score,
		Actionable:    eval.actionable,
	}

	if s.metrics != nil {
		s.metrics.RecordQualityScore(ctx, eval.score.Value)
	}

	slog.DebugContext(ctx, "location scored",
		slog.String("run_id", runID),
		slog.String("subscriber_key", sub.Key),
		slog.Int64("location_id", loc.ID),
		slog.Float64("score", eval.score.Value),
		slog.Float64("minutes_to_sunset", eval.minutesToSunset),
		slog.Bool("actionable", eval.actionable),
	)

	if !eval.actionable {
		return OutcomeNotActionable, nil
	}

	if s.cfg.Dedupe && s.ledger != nil {
		first, markErr := s.ledger.MarkNotified(ctx, sub.Key, loc.ID, eval.sunsetDate)
		if markErr != nil {
			slog.WarnContext(ctx, "failed to check notification ledger",
				slog.String("subscriber_key", sub.Key),
				slog.Int64("location_id", loc.ID),
				slog.String("error", markErr.Error()),
			)
		} else if !first {
			slog.DebugContext(ctx, "sunset already announced",
				slog.String("subscriber_key", sub.Key),
				slog.Int64("location_id", loc.ID),
				slog.String("sunset_date", eval.sunsetDate),
			)
			return OutcomeAlreadyNotified, nil
		}
	}

	return s.deliver(ctx, sub, loc, eval)
}

type evaluation struct {
	score           domain.QualityScore
	sunset          time.Time
	sunsetCivil     time.Time
	sunsetDate      string
	evaluatedAt     time.Time
	minutesToSunset float64
	actionable      bool
}

func (s *Service) evaluate(ctx context.Context, loc domain.Location) (*evaluation, error) {
	coords := loc.Coordinates()

	forecast, err := s.fetchForecast(ctx, coords)
	if err != nil {
		return nil, err
	}
	if len(forecast.SunsetTimes) == 0 {
		return nil, fmt.Errorf("%w: no sunset time", domain.ErrProviderDataIncomplete)
	}

	sunsetCivil := forecast.SunsetTimes[0]
	sunset, err := s.cfg.Window.Instant(sunsetCivil, forecast.UTCOffsetSeconds)
	if err != nil {
		return nil, err
	}

	weatherSample, err := s.selectWeatherSample(forecast, sunsetCivil)
	if err != nil {
		return nil, err
	}

	var aqSample *domain.AirQualitySample
	if s.engine.Policy().NeedsAirQuality() {
		aqSample, err = s.airQualitySample(ctx, coords, sunset)
		if err != nil {
			return nil, err
		}
	}

	score, err := s.engine.Score(weatherSample, aqSample)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return &evaluation{
		score:           score,
		sunset:          sunset,
		sunsetCivil:     sunsetCivil,
		sunsetDate:      sunsetCivil.Format(civilDateLayout),
		evaluatedAt:     now,
		minutesToSunset: window.MinutesToSunset(sunset, now),
		actionable:      s.cfg.Window.IsActionableAt(score.Value, sunset, now),
	}, nil
}

func (s *Service) fetchForecast(ctx context.Context, coords domain.Coordinates) (*domain.WeatherForecast, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ProviderTimeout)
	defer cancel()

	forecast, err := s.weather.Forecast(ctx, coords)
	if err != nil {
		return nil, fmt.Errorf("weather provider: %w", err)
	}
	if forecast == nil {
		return nil, fmt.Errorf("%w: empty forecast", domain.ErrProviderDataIncomplete)
	}
	return forecast, nil
}

func (s *Service) selectWeatherSample(forecast *domain.WeatherForecast, sunsetCivil time.Time) (*domain.WeatherSample, error) {
	if s.cfg.SampleMode == config.SampleModeCurrent {
		if forecast.Current == nil {
			return nil, fmt.Errorf("%w: no current conditions", domain.ErrProviderDataIncomplete)
		}
		return forecast.Current, nil
	}

	if len(forecast.Hourly) == 0 || len(forecast.Hourly) != len(forecast.HourlyTimes) {
		return nil, fmt.Errorf("%w: no usable hourly series", domain.ErrProviderDataIncomplete)
	}

	idx, err := alignment.FindNearestHourIndex(sunsetCivil, forecast.HourlyTimes)
	if err != nil {
		return nil, err
	}
	sample := forecast.Hourly[idx]
	return &sample, nil
}

// airQualitySample returns nil without error when the provider has no
// usable PM2.5 reading, which scores the aerosol component as 0.
func (s *Service) airQualitySample(ctx context.Context, coords domain.Coordinates, sunset time.Time) (*domain.AirQualitySample, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ProviderTimeout)
	defer cancel()

	aq, err := s.airQuality.AirQuality(ctx, coords)
	if errors.Is(err, domain.ErrProviderDataIncomplete) || (err == nil && aq == nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("air quality provider: %w", err)
	}

	if s.cfg.SampleMode == config.SampleModeCurrent {
		return aq.Current, nil
	}

	if len(aq.Hourly) == 0 || len(aq.Hourly) != len(aq.HourlyTimes) {
		return aq.Current, nil
	}

	// The air quality series has its own time base.
	local := sunset.In(time.FixedZone("", aq.UTCOffsetSeconds))
	target := time.Date(local.Year(), local.Month(), local.Day(),
		local.Hour(), local.Minute(), local.Second(), 0, time.UTC)

	idx, err := alignment.FindNearestHourIndex(target, aq.HourlyTimes)
	if err != nil {
		return nil, err
	}
	sample := aq.Hourly[idx]
	return &sample, nil
}

func (s *Service) deliver(ctx context.Context, sub *domain.Subscriber, loc domain.Location, eval *evaluation) (Outcome, error) {
	data := newMessageData(loc, eval.score.Value, eval.sunsetCivil.Format("15:04"))

	channel := "email"
	if sub.Kind.IsPush() {
		channel = "push"
	}

	ctx, span := tracing.StartDeliverySpan(ctx, channel)
	defer span.End()

	deliveryCtx, cancel := context.WithTimeout(ctx, s.cfg.DeliveryTimeout)
	defer cancel()

	var sendErr error
	switch {
	case sub.Kind.IsPush():
		sendErr = s.push.Send(deliveryCtx, *sub.Push, buildPushPayload(data))
	default:
		msg, err := buildEmail(sub.Email, data)
		if err != nil {
			sendErr = err
			break
		}
		sendErr = s.email.Send(deliveryCtx, msg)
	}
	tracing.RecordResult(span, sendErr)

	if sendErr == nil {
		if s.metrics != nil {
			s.metrics.RecordNotification(ctx, channel, "delivered")
		}
		slog.InfoContext(ctx, "sunset notification delivered",
			slog.String("subscriber_key", sub.Key),
			slog.String("channel", channel),
			slog.Int64("location_id", loc.ID),
			slog.String("city", loc.City),
			slog.Float64("score", eval.score.Value),
			slog.Float64("minutes_to_sunset", eval.minutesToSunset),
		)
		return OutcomeNotified, nil
	}

	if sub.Kind.IsPush() && errors.Is(sendErr, domain.ErrDeliveryPermanent) {
		if s.metrics != nil {
			s.metrics.RecordNotification(ctx, channel, "gone")
		}
		return s.removeSubscriber(ctx, sub, sendErr)
	}

	if s.metrics != nil {
		s.metrics.RecordNotification(ctx, channel, "failed")
	}
	slog.WarnContext(ctx, "sunset notification delivery failed",
		slog.String("subscriber_key", sub.Key),
		slog.String("channel", channel),
		slog.Int64("location_id", loc.ID),
		slog.String("error", sendErr.Error()),
	)

	s.releaseMark(ctx, sub, loc, eval)
	return OutcomeDeliveryFailed, nil
}

// removeSubscriber deletes a push subscriber whose endpoint no longer exists.
func (s *Service) removeSubscriber(ctx context.Context, sub *domain.Subscriber, cause error) (Outcome, error) {
	slog.InfoContext(ctx, "push endpoint gone, removing subscriber",
		slog.String("subscriber_key", sub.Key),
		slog.String("endpoint", sub.Endpoint()),
		slog.String("error", cause.Error()),
	)

	if err := s.repo.Delete(ctx, sub.Key); err != nil {
		slog.ErrorContext(ctx, "failed to remove subscriber",
			slog.String("subscriber_key", sub.Key),
			slog.String("error", err.Error()),
		)
		return "", asStorageError(err)
	}

	if s.metrics != nil {
		s.metrics.RecordSubscriberRemoved(ctx)
	}
	return OutcomeRemoved, nil
}

func (s *Service) releaseMark(ctx context.Context, sub *domain.Subscriber, loc domain.Location, eval *evaluation) {
	if !s.cfg.Dedupe || s.ledger == nil {
		return
	}
	if err := s.ledger.Release(ctx, sub.Key, loc.ID, eval.sunsetDate); err != nil {
		slog.WarnContext(ctx, "failed to release notification mark",
			slog.String("subscriber_key", sub.Key),
			slog.Int64("location_id", loc.ID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) recordScores(ctx context.Context, records []domain.ScoreRecord) {
	if s.recorder == nil || len(records) == 0 {
		return
	}
	if err := s.recorder.RecordScores(ctx, records); err != nil {
		slog.WarnContext(ctx, "failed to record scores",
			slog.Int("record_count", len(records)),
			slog.String("error", err.Error()),
		)
		return
	}
	if err := s.recorder.Flush(ctx); err != nil {
		slog.WarnContext(ctx, "failed to flush score recorder",
			slog.String("error", err.Error()),
		)
	}
}

func asStorageError(err error) error {
	if errors.Is(err, domain.ErrStorage) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStorage, err)
}
