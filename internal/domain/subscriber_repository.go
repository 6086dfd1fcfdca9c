package domain

import "context"

//go:generate mockgen -source=subscriber_repository.go -destination=subscriber_repository_mock.go -package=domain

// SubscriberRepository is the key-value store holding subscriber records.
type SubscriberRepository interface {
	Get(ctx context.Context, key string) (*Subscriber, error)
	Save(ctx context.Context, subscriber *Subscriber) error
	// Update applies mutate to the current record (nil when absent) as one
	// atomic read-modify-write. Returning a nil subscriber leaves the record untouched.
	Update(ctx context.Context, key string, mutate func(current *Subscriber) (*Subscriber, error)) error
	Delete(ctx context.Context, key string) error
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	// MigrateLegacyKeys moves email records stored under a bare address to
	// their prefixed key and reports how many were moved.
	MigrateLegacyKeys(ctx context.Context) (int, error)
	// MultiGet returns one entry per key; missing or undecodable records are nil.
	MultiGet(ctx context.Context, keys []string) ([]*Subscriber, error)
}

// NotificationLedger remembers which sunsets were already announced.
type NotificationLedger interface {
	// MarkNotified records the notification and reports whether it is the first one.
	MarkNotified(ctx context.Context, subscriberKey string, locationID int64, sunsetDate string) (bool, error)
	// Release forgets a mark so the next cycle may try again.
	Release(ctx context.Context, subscriberKey string, locationID int64, sunsetDate string) error
}
