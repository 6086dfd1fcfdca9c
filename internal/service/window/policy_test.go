package window

import (
	"errors"
	"testing"
	"time"

	"github.com/KasumiMercury/primind-sunset-notification/internal/domain"
)

func TestPolicy_IsActionable(t *testing.T) {
	policy := DefaultPolicy()
	// 19:30 local at UTC+7 is 12:30 UTC.
	sunsetCivil := time.Date(2024, 6, 1, 19, 30, 0, 0, time.UTC)
	offset := 7 * 3600
	sunsetUTC := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		score float64
		now   time.Time
		want  bool
	}{
		{name: "ten minutes before", score: 85, now: sunsetUTC.Add(-10 * time.Minute), want: true},
		{name: "exactly fifteen minutes before", score: 85, now: sunsetUTC.Add(-15 * time.Minute), want: true},
		{name: "sixteen minutes before", score: 85, now: sunsetUTC.Add(-16 * time.Minute), want: false},
		{name: "at sunset", score: 85, now: sunsetUTC, want: false},
		{name: "one minute after", score: 85, now: sunsetUTC.Add(time.Minute), want: false},
		{name: "score at threshold", score: 80, now: sunsetUTC.Add(-5 * time.Minute), want: true},
		{name: "score below threshold", score: 79.9, now: sunsetUTC.Add(-5 * time.Minute), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy.IsActionable(tt.score, sunsetCivil, tt.now, offset)
			if got != tt.want {
				t.Errorf("IsActionable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPolicy_IsActionable_ConfiguredThreshold(t *testing.T) {
	policy := Policy{Threshold: 1, Lead: DefaultLead, Offsets: OffsetExact}
	sunset := time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)

	if !policy.IsActionable(2, sunset, sunset.Add(-time.Minute), 0) {
		t.Error("expected low threshold to accept score 2")
	}
}

func TestPolicy_HalfHourOffset(t *testing.T) {
	// India: UTC+5:30. 18:45 local is 13:15 UTC.
	sunsetCivil := time.Date(2024, 6, 1, 18, 45, 0, 0, time.UTC)
	offset := 5*3600 + 1800
	now := time.Date(2024, 6, 1, 13, 5, 0, 0, time.UTC)

	exact := DefaultPolicy()
	if !exact.IsActionable(90, sunsetCivil, now, offset) {
		t.Error("exact offset policy should resolve the half-hour offset")
	}

	skip := DefaultPolicy()
	skip.Offsets = OffsetSkip
	if skip.IsActionable(90, sunsetCivil, now, offset) {
		t.Error("skip offset policy should fail closed on half-hour offsets")
	}
	if _, err := skip.Instant(sunsetCivil, offset); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Instant() error = %v, want ErrInvalidInput", err)
	}
}

func TestCivilToInstant(t *testing.T) {
	civil := time.Date(2024, 1, 15, 17, 20, 0, 0, time.UTC)
	got := CivilToInstant(civil, -5*3600)
	want := time.Date(2024, 1, 15, 22, 20, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("CivilToInstant() = %v, want %v", got, want)
	}
}

func TestMinutesToSunset(t *testing.T) {
	now := time.Date(2024, 1, 15, 17, 0, 0, 0, time.UTC)
	if got := MinutesToSunset(now.Add(90*time.Second), now); got != 1.5 {
		t.Errorf("MinutesToSunset() = %v, want 1.5", got)
	}
	if got := MinutesToSunset(now.Add(-time.Minute), now); got != -1 {
		t.Errorf("MinutesToSunset() = %v, want -1", got)
	}
}

func TestPolicy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		wantErr bool
	}{
		{name: "default", policy: DefaultPolicy()},
		{name: "threshold above 100", policy: Policy{Threshold: 101, Lead: DefaultLead, Offsets: OffsetExact}, wantErr: true},
		{name: "zero lead", policy: Policy{Threshold: 80, Offsets: OffsetExact}, wantErr: true},
		{name: "unknown offsets", policy: Policy{Threshold: 80, Lead: DefaultLead, Offsets: "round"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
