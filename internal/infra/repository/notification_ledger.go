package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-sunset-notification/internal/domain"
)

const (
	notifiedKeyPrefix = "sunset:notified:"

	notifiedTTL = 48 * time.Hour
)

type notificationLedger struct {
	client *redis.Client
}

func NewNotificationLedger(client *redis.Client) domain.NotificationLedger {
	return &notificationLedger{
		client: client,
	}
}

func notifiedKey(subscriberKey string, locationID int64, sunsetDate string) string {
	return fmt.Sprintf("%s%s:%d:%s", notifiedKeyPrefix, sunsetDate, locationID, subscriberKey)
}

func (l *notificationLedger) MarkNotified(ctx context.Context, subscriberKey string, locationID int64, sunsetDate string) (bool, error) {
	key := notifiedKey(subscriberKey, locationID, sunsetDate)

	first, err := l.client.SetNX(ctx, key, time.Now().Unix(), notifiedTTL).Result()
	if err != nil {
		return false, storageError(err)
	}
	return first, nil
}

func (l *notificationLedger) Release(ctx context.Context, subscriberKey string, locationID int64, sunsetDate string) error {
	if err := l.client.Del(ctx, notifiedKey(subscriberKey, locationID, sunsetDate)).Err(); err != nil {
		return storageError(err)
	}
	return nil
}
