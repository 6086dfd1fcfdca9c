package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/KasumiMercury/primind-sunset-notification/internal/domain"
)

const defaultGeocodeTimeout = 10 * time.Second

// Service manages subscriber records. Each subscribe call is one atomic
// read-modify-write against the store.
type Service struct {
	repo     domain.SubscriberRepository
	geocoder domain.Geocoder

	geocodeTimeout time.Duration
	now            func() time.Time
}

func NewService(repo domain.SubscriberRepository, geocoder domain.Geocoder) *Service {
	return &Service{
		repo:           repo,
		geocoder:       geocoder,
		geocodeTimeout: defaultGeocodeTimeout,
		now:            time.Now,
	}
}

// SubscribeEmail geocodes city and adds it to the email subscriber,
// creating the subscriber on first use.
func (s *Service) SubscribeEmail(ctx context.Context, email, city string) (*domain.Subscriber, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}

	loc, err := s.locate(ctx, city)
	if err != nil {
		return nil, err
	}

	key := domain.EmailSubscriberKey(email)
	return s.upsert(ctx, key, *loc, func(now time.Time) (*domain.Subscriber, error) {
		return domain.NewEmailSubscriber(email, *loc, now)
	}, nil)
}

// SubscribePush geocodes city and adds it to the push subscriber keyed by
// the credential's endpoint. Adding a location also stores the latest
// credential keys.
func (s *Service) SubscribePush(ctx context.Context, cred domain.PushCredential, city string) (*domain.Subscriber, error) {
	if err := cred.Validate(); err != nil {
		return nil, err
	}

	loc, err := s.locate(ctx, city)
	if err != nil {
		return nil, err
	}

	key := domain.PushSubscriberKey(cred.Endpoint)
	return s.upsert(ctx, key, *loc, func(now time.Time) (*domain.Subscriber, error) {
		return domain.NewPushSubscriber(cred, *loc, now)
	}, func(current *domain.Subscriber) {
		c := cred
		current.Push = &c
	})
}

// UnsubscribeEmail also removes a record still stored under the bare
// address so that a later key migration cannot bring it back.
func (s *Service) UnsubscribeEmail(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	keys := []string{domain.EmailSubscriberKey(email)}
	if domain.IsLegacyEmailKey(email) {
		keys = append(keys, email)
	}
	return s.remove(ctx, keys...)
}

func (s *Service) UnsubscribePush(ctx context.Context, endpoint string) error {
	return s.remove(ctx, domain.PushSubscriberKey(strings.TrimSpace(endpoint)))
}

func (s *Service) locate(ctx context.Context, city string) (*domain.Location, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, fmt.Errorf("%w: city is required", domain.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, s.geocodeTimeout)
	defer cancel()

	loc, err := s.geocoder.Search(ctx, city)
	if err != nil {
		if !errors.Is(err, domain.ErrLocationNotFound) {
			slog.WarnContext(ctx, "geocoding failed",
				slog.String("city", city),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	return loc, nil
}

func (s *Service) upsert(
	ctx context.Context,
	key string,
	loc domain.Location,
	create func(now time.Time) (*domain.Subscriber, error),
	refresh func(current *domain.Subscriber),
) (*domain.Subscriber, error) {
	var saved *domain.Subscriber

	err := s.repo.Update(ctx, key, func(current *domain.Subscriber) (*domain.Subscriber, error) {
		now := s.now()
		if current == nil {
			created, err := create(now)
			if err != nil {
				return nil, err
			}
			saved = created
			return created, nil
		}

		if err := current.AddLocation(loc, now); err != nil {
			return nil, err
		}
		if refresh != nil {
			refresh(current)
		}
		saved = current
		return current, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrLocationAlreadySubscribed) {
			slog.InfoContext(ctx, "location already subscribed",
				slog.String("subscriber_key", key),
				slog.Int64("location_id", loc.ID),
			)
		}
		return nil, err
	}

	slog.InfoContext(ctx, "subscriber location added",
		slog.String("subscriber_key", key),
		slog.String("kind", saved.Kind.String()),
		slog.Int64("location_id", loc.ID),
		slog.String("city", loc.City),
		slog.Int("location_count", len(saved.Locations)),
	)

	return saved, nil
}

func (s *Service) remove(ctx context.Context, keys ...string) error {
	removed := 0
	for _, key := range keys {
		// Undecodable records are still removable.
		_, err := s.repo.Get(ctx, key)
		if errors.Is(err, domain.ErrSubscriberNotFound) {
			continue
		}
		if errors.Is(err, domain.ErrStorage) {
			return err
		}
		if err := s.repo.Delete(ctx, key); err != nil {
			return err
		}
		removed++

		slog.InfoContext(ctx, "subscriber removed",
			slog.String("subscriber_key", key),
		)
	}

	if removed == 0 {
		return domain.ErrSubscriberNotFound
	}
	return nil
}
