package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/KasumiMercury/primind-sunset-notification/internal/domain"
)

func TestDecodeSubscriber(t *testing.T) {
	tests := []struct {
		name          string
		key           string
		data          string
		wantKind      domain.SubscriberKind
		wantLocations int
		wantErr       error
	}{
		{
			name:          "tagged email record",
			key:           "subscriber:email:a@example.com",
			data:          `{"kind":"email","email":"a@example.com","locations":[{"id":1,"city":"Lisbon","latitude":38.7,"longitude":-9.1,"timezone":"Europe/Lisbon"}]}`,
			wantKind:      domain.KindEmail,
			wantLocations: 1,
		},
		{
			name:          "legacy email record with flat location",
			key:           "subscriber:email:b@example.com",
			data:          `{"email":"b@example.com","city":"Porto","latitude":41.1,"longitude":-8.6,"timezone":"Europe/Lisbon"}`,
			wantKind:      domain.KindEmail,
			wantLocations: 1,
		},
		{
			name:          "email record stored under the bare address",
			key:           "alice@example.com",
			data:          `{"email":"alice@example.com","city":"Porto","country":"Portugal","latitude":41.1,"longitude":-8.6,"timezone":"Europe/Lisbon"}`,
			wantKind:      domain.KindEmail,
			wantLocations: 1,
		},
		{
			name:          "legacy single-location push record",
			key:           "push-subscriber:https://push.example.com/x",
			data:          `{"subscription":{"endpoint":"https://push.example.com/x","keys":{"p256dh":"p","auth":"a"}},"city":"Faro","latitude":37.0,"longitude":-7.9}`,
			wantKind:      domain.KindPushLegacy,
			wantLocations: 1,
		},
		{
			name:          "untagged multi-location push record",
			key:           "push-subscriber:https://push.example.com/y",
			data:          `{"subscription":{"endpoint":"https://push.example.com/y","keys":{"p256dh":"p","auth":"a"}},"locations":[{"id":1,"city":"Faro","latitude":37.0,"longitude":-7.9},{"id":2,"city":"Braga","latitude":41.5,"longitude":-8.4}]}`,
			wantKind:      domain.KindPush,
			wantLocations: 2,
		},
		{
			name:    "record without identity",
			key:     "subscriber:email:unknown",
			data:    `{"city":"Faro"}`,
			wantErr: ErrInvalidSubscriberData,
		},
		{
			name:    "malformed json",
			key:     "subscriber:email:broken",
			data:    `{"kind":`,
			wantErr: ErrInvalidSubscriberData,
		},
		{
			name:    "unknown kind",
			key:     "subscriber:email:c@example.com",
			data:    `{"kind":"sms","email":"c@example.com"}`,
			wantErr: ErrInvalidSubscriberData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := decodeSubscriber(tt.key, []byte(tt.data))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.Key != tt.key {
				t.Errorf("expected key %q, got %q", tt.key, s.Key)
			}
			if s.Kind != tt.wantKind {
				t.Errorf("expected kind %q, got %q", tt.wantKind, s.Kind)
			}
			if len(s.Locations) != tt.wantLocations {
				t.Errorf("expected %d locations, got %d", tt.wantLocations, len(s.Locations))
			}
		})
	}
}

func TestEncodeSubscriberWritesKind(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s, err := domain.NewPushSubscriber(
		domain.PushCredential{Endpoint: "https://push.example.com/z", Keys: domain.PushKeys{P256dh: "p", Auth: "a"}},
		domain.Location{ID: 7, City: "Lisbon", Latitude: 38.7, Longitude: -9.1},
		now,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := encodeSubscriber(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, err := decodeSubscriber(s.Key, data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.Kind != domain.KindPush {
		t.Errorf("expected kind %q, got %q", domain.KindPush, decoded.Kind)
	}
	if decoded.Endpoint() != "https://push.example.com/z" {
		t.Errorf("unexpected endpoint %q", decoded.Endpoint())
	}
	if !decoded.CreatedAt.Equal(now) {
		t.Errorf("expected created_at %v, got %v", now, decoded.CreatedAt)
	}
}

func TestEncodeSubscriberRejectsInvalid(t *testing.T) {
	_, err := encodeSubscriber(&domain.Subscriber{Key: "subscriber:email:x", Kind: domain.KindEmail})
	if !errors.Is(err, ErrInvalidSubscriberData) {
		t.Fatalf("expected ErrInvalidSubscriberData, got %v", err)
	}
}

func TestEscapeGlob(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "push-subscriber:", want: "push-subscriber:"},
		{in: "a*b?c[d]", want: `a\*b\?c\[d\]`},
	}

	for _, tt := range tests {
		if got := escapeGlob(tt.in); got != tt.want {
			t.Errorf("escapeGlob(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
