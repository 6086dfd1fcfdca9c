package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-sunset-notification/internal/domain"
)

const (
	scanBatchSize    = 200
	mgetBatchSize    = 100
	maxUpdateRetries = 5

	legacyEmailPattern = "*@*"
)

type subscriberRepository struct {
	client *redis.Client
}

func NewSubscriberRepository(client *redis.Client) domain.SubscriberRepository {
	return &subscriberRepository{
		client: client,
	}
}

func (r *subscriberRepository) Get(ctx context.Context, key string) (*domain.Subscriber, error) {
	return getSubscriber(ctx, r.client, key)
}

func getSubscriber(ctx context.Context, c redis.Cmdable, key string) (*domain.Subscriber, error) {
	data, err := c.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSubscriberNotFound
		}
		return nil, storageError(err)
	}

	return decodeSubscriber(key, data)
}

func (r *subscriberRepository) Save(ctx context.Context, subscriber *domain.Subscriber) error {
	data, err := encodeSubscriber(subscriber)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, subscriber.Key, data, 0).Err(); err != nil {
		return storageError(err)
	}
	return nil
}

func (r *subscriberRepository) Update(
	ctx context.Context,
	key string,
	mutate func(current *domain.Subscriber) (*domain.Subscriber, error),
) error {
	txf := func(tx *redis.Tx) error {
		current, err := getSubscriber(ctx, tx, key)
		if err != nil && !errors.Is(err, domain.ErrSubscriberNotFound) {
			return err
		}

		next, err := mutate(current)
		if err != nil {
			return err
		}
		if next == nil {
			return nil
		}
		if next.Key != key {
			return fmt.Errorf("%w: key changed from %s to %s", ErrInvalidSubscriberData, key, next.Key)
		}

		data, err := encodeSubscriber(next)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			slog.DebugContext(ctx, "subscriber update conflicted, retrying",
				slog.String("subscriber_key", key),
				slog.Int("attempt", attempt+1),
			)
			continue
		}
		if err != nil && isRedisError(err) {
			return storageError(err)
		}
		return err
	}

	return fmt.Errorf("%w: %w: %s", domain.ErrStorage, ErrUpdateConflict, key)
}

func (r *subscriberRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return storageError(err)
	}
	return nil
}

func (r *subscriberRepository) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	keys := make([]string, 0)

	iter := r.client.Scan(ctx, 0, escapeGlob(prefix)+"*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, storageError(err)
	}

	return keys, nil
}

func (r *subscriberRepository) MigrateLegacyKeys(ctx context.Context) (int, error) {
	var legacy []string

	iter := r.client.Scan(ctx, 0, legacyEmailPattern, scanBatchSize).Iterator()
	for iter.Next(ctx) {
		if domain.IsLegacyEmailKey(iter.Val()) {
			legacy = append(legacy, iter.Val())
		}
	}
	if err := iter.Err(); err != nil {
		return 0, storageError(err)
	}

	migrated := 0
	for _, key := range legacy {
		moved, err := r.migrateEmailKey(ctx, key)
		if err != nil {
			return migrated, err
		}
		if moved {
			migrated++
		}
	}

	return migrated, nil
}

// migrateEmailKey rewrites the record at legacyKey under its prefixed key,
// merging locations into an existing record, and drops legacyKey in the
// same transaction.
func (r *subscriberRepository) migrateEmailKey(ctx context.Context, legacyKey string) (bool, error) {
	target := domain.EmailSubscriberKey(legacyKey)
	var moved bool

	txf := func(tx *redis.Tx) error {
		moved = false

		legacy, err := getSubscriber(ctx, tx, legacyKey)
		if errors.Is(err, domain.ErrSubscriberNotFound) {
			return nil
		}
		if errors.Is(err, ErrInvalidSubscriberData) || (err == nil && legacy.Kind != domain.KindEmail) {
			slog.WarnContext(ctx, "leaving unmigratable legacy subscriber in place",
				slog.String("subscriber_key", legacyKey),
			)
			return nil
		}
		if err != nil {
			return err
		}

		merged, err := getSubscriber(ctx, tx, target)
		switch {
		case errors.Is(err, domain.ErrSubscriberNotFound):
			merged = legacy
			merged.Key = target
		case errors.Is(err, ErrInvalidSubscriberData):
			slog.WarnContext(ctx, "prefixed subscriber undecodable, leaving legacy record in place",
				slog.String("subscriber_key", target),
			)
			return nil
		case err != nil:
			return err
		default:
			for _, loc := range legacy.Locations {
				if err := merged.AddLocation(loc, merged.UpdatedAt); err != nil && !errors.Is(err, domain.ErrLocationAlreadySubscribed) {
					return err
				}
			}
		}

		data, err := encodeSubscriber(merged)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, target, data, 0)
			pipe.Del(ctx, legacyKey)
			return nil
		})
		if err == nil {
			moved = true
		}
		return err
	}

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		err := r.client.Watch(ctx, txf, legacyKey, target)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			if isRedisError(err) {
				return false, storageError(err)
			}
			return false, err
		}
		if moved {
			slog.InfoContext(ctx, "legacy subscriber key migrated",
				slog.String("legacy_key", legacyKey),
				slog.String("subscriber_key", target),
			)
		}
		return moved, nil
	}

	return false, fmt.Errorf("%w: %w: %s", domain.ErrStorage, ErrUpdateConflict, legacyKey)
}

func (r *subscriberRepository) MultiGet(ctx context.Context, keys []string) ([]*domain.Subscriber, error) {
	subscribers := make([]*domain.Subscriber, 0, len(keys))

	for start := 0; start < len(keys); start += mgetBatchSize {
		end := min(start+mgetBatchSize, len(keys))
		batch := keys[start:end]

		values, err := r.client.MGet(ctx, batch...).Result()
		if err != nil {
			return nil, storageError(err)
		}

		for i, v := range values {
			raw, ok := v.(string)
			if !ok {
				subscribers = append(subscribers, nil)
				continue
			}
			s, err := decodeSubscriber(batch[i], []byte(raw))
			if err != nil {
				slog.WarnContext(ctx, "skipping undecodable subscriber record",
					slog.String("subscriber_key", batch[i]),
					slog.String("error", err.Error()),
				)
				subscribers = append(subscribers, nil)
				continue
			}
			subscribers = append(subscribers, s)
		}
	}

	return subscribers, nil
}

func storageError(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrStorage, err)
}

// isRedisError separates transport and server failures from errors returned
// by the mutate callback, which pass through unchanged.
func isRedisError(err error) bool {
	var redisErr redis.Error
	if errors.As(err, &redisErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, redis.ErrClosed) || errors.Is(err, context.DeadlineExceeded)
}

func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
