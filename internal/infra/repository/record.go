package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/KasumiMercury/primind-sunset-notification/internal/domain"
)

type locationRecord struct {
	ID        int64   `json:"id"`
	City      string  `json:"city"`
	Country   string  `json:"country,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

// subscriberRecord is the stored JSON document. Records written before the
// kind discriminator existed carry a single location in the flat fields.
type subscriberRecord struct {
	Kind         string                 `json:"kind,omitempty"`
	Email        string                 `json:"email,omitempty"`
	Subscription *domain.PushCredential `json:"subscription,omitempty"`
	Locations    []locationRecord       `json:"locations,omitempty"`
	CreatedAt    time.Time              `json:"created_at,omitzero"`
	UpdatedAt    time.Time              `json:"updated_at,omitzero"`

	City      string   `json:"city,omitempty"`
	Country   string   `json:"country,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Timezone  string   `json:"timezone,omitempty"`
}

func encodeSubscriber(s *domain.Subscriber) ([]byte, error) {
	if s == nil {
		return nil, ErrInvalidSubscriberData
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSubscriberData, err)
	}

	locations := make([]locationRecord, 0, len(s.Locations))
	for _, l := range s.Locations {
		locations = append(locations, locationRecord(l))
	}

	record := subscriberRecord{
		Kind:         s.Kind.String(),
		Email:        s.Email,
		Subscription: s.Push,
		Locations:    locations,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return nil, ErrInvalidSubscriberData
	}
	return data, nil
}

func decodeSubscriber(key string, data []byte) (*domain.Subscriber, error) {
	var record subscriberRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, ErrInvalidSubscriberData
	}

	kind := domain.SubscriberKind(record.Kind)
	if kind == "" {
		kind = legacyKind(record)
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: cannot determine subscriber kind for %s", ErrInvalidSubscriberData, key)
	}

	locations := make([]domain.Location, 0, len(record.Locations)+1)
	for _, l := range record.Locations {
		locations = append(locations, domain.Location(l))
	}
	if len(locations) == 0 && record.City != "" && record.Latitude != nil && record.Longitude != nil {
		locations = append(locations, domain.Location{
			City:      record.City,
			Country:   record.Country,
			Latitude:  *record.Latitude,
			Longitude: *record.Longitude,
			Timezone:  record.Timezone,
		})
	}

	s := &domain.Subscriber{
		Key:       key,
		Kind:      kind,
		Email:     record.Email,
		Push:      record.Subscription,
		Locations: locations,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSubscriberData, err)
	}
	return s, nil
}

// legacyKind classifies records stored before the kind field was added.
func legacyKind(r subscriberRecord) domain.SubscriberKind {
	switch {
	case r.Subscription != nil && len(r.Locations) > 0:
		return domain.KindPush
	case r.Subscription != nil && r.City != "":
		return domain.KindPushLegacy
	case r.Email != "":
		return domain.KindEmail
	default:
		return ""
	}
}
