package domain

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"
)

const (
	EmailKeyPrefix = "subscriber:email:"
	PushKeyPrefix  = "push-subscriber:"
)

// SubscriberKind discriminates the stored subscriber variants.
type SubscriberKind string

const (
	KindEmail      SubscriberKind = "email"
	KindPushLegacy SubscriberKind = "push_legacy"
	KindPush       SubscriberKind = "push"
)

func (k SubscriberKind) String() string {
	return string(k)
}

func (k SubscriberKind) IsPush() bool {
	return k == KindPush || k == KindPushLegacy
}

func (k SubscriberKind) Valid() bool {
	switch k {
	case KindEmail, KindPushLegacy, KindPush:
		return true
	}
	return false
}

// PushKeys are the client keys of a Web Push subscription.
type PushKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// PushCredential is the browser push subscription as handed out by the
// PushManager. The dispatcher treats it as opaque apart from Endpoint.
type PushCredential struct {
	Endpoint       string   `json:"endpoint"`
	ExpirationTime *int64   `json:"expirationTime,omitempty"`
	Keys           PushKeys `json:"keys"`
}

func (c PushCredential) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("%w: push endpoint %q is not an https URL", ErrInvalidInput, c.Endpoint)
	}
	if c.Keys.P256dh == "" || c.Keys.Auth == "" {
		return fmt.Errorf("%w: push subscription keys are missing", ErrInvalidInput)
	}
	return nil
}

// Subscriber is either an email subscriber or a push subscriber. Kind
// decides which of Email and Push is populated.
type Subscriber struct {
	Key       string
	Kind      SubscriberKind
	Email     string
	Push      *PushCredential
	Locations []Location
	CreatedAt time.Time
	UpdatedAt time.Time
}

func EmailSubscriberKey(address string) string {
	return EmailKeyPrefix + address
}

func PushSubscriberKey(endpoint string) string {
	return PushKeyPrefix + endpoint
}

// IsLegacyEmailKey reports whether key is a bare email address, the key
// format of records written before keys carried a prefix.
func IsLegacyEmailKey(key string) bool {
	if key == "" || strings.Contains(key, ":") {
		return false
	}
	parsed, err := mail.ParseAddress(key)
	return err == nil && parsed.Address == key
}

func NewEmailSubscriber(address string, loc Location, now time.Time) (*Subscriber, error) {
	parsed, err := mail.ParseAddress(address)
	if err != nil || parsed.Address != address {
		return nil, fmt.Errorf("%w: invalid email address %q", ErrInvalidInput, address)
	}
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	return &Subscriber{
		Key:       EmailSubscriberKey(address),
		Kind:      KindEmail,
		Email:     address,
		Locations: []Location{loc},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func NewPushSubscriber(cred PushCredential, loc Location, now time.Time) (*Subscriber, error) {
	if err := cred.Validate(); err != nil {
		return nil, err
	}
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	c := cred
	return &Subscriber{
		Key:       PushSubscriberKey(cred.Endpoint),
		Kind:      KindPush,
		Push:      &c,
		Locations: []Location{loc},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *Subscriber) HasLocation(id int64) bool {
	for _, l := range s.Locations {
		if l.ID == id {
			return true
		}
	}
	return false
}

// AddLocation appends loc unless a location with the same ID is already
// present. A legacy single-location push subscriber is promoted to the
// multi-location kind.
func (s *Subscriber) AddLocation(loc Location, now time.Time) error {
	if s.HasLocation(loc.ID) {
		return ErrLocationAlreadySubscribed
	}
	if err := loc.Validate(); err != nil {
		return err
	}
	s.Locations = append(s.Locations, loc)
	if s.Kind == KindPushLegacy {
		s.Kind = KindPush
	}
	s.UpdatedAt = now
	return nil
}

// Endpoint returns the push endpoint, or "" for email subscribers.
func (s *Subscriber) Endpoint() string {
	if s.Push == nil {
		return ""
	}
	return s.Push.Endpoint
}

func (s *Subscriber) Validate() error {
	if !s.Kind.Valid() {
		return fmt.Errorf("%w: unknown subscriber kind %q", ErrInvalidInput, s.Kind)
	}
	if s.Key == "" {
		return fmt.Errorf("%w: subscriber key is empty", ErrInvalidInput)
	}
	switch s.Kind {
	case KindEmail:
		if s.Email == "" {
			return fmt.Errorf("%w: email subscriber without address", ErrInvalidInput)
		}
	case KindPush, KindPushLegacy:
		if s.Push == nil || s.Push.Endpoint == "" {
			return fmt.Errorf("%w: push subscriber without endpoint", ErrInvalidInput)
		}
		if s.Kind == KindPushLegacy && len(s.Locations) > 1 {
			return fmt.Errorf("%w: legacy push subscriber with %d locations", ErrInvalidInput, len(s.Locations))
		}
	}
	seen := make(map[int64]struct{}, len(s.Locations))
	for _, l := range s.Locations {
		if _, ok := seen[l.ID]; ok {
			return fmt.Errorf("%w: duplicate location id %d", ErrInvalidInput, l.ID)
		}
		seen[l.ID] = struct{}{}
	}
	return nil
}
