package alignment

import (
	"errors"
	"testing"
	"time"

	"github.com/KasumiMercury/primind-sunset-notification/internal/domain"
)

func hours(day time.Time, hs ...int) []time.Time {
	out := make([]time.Time, 0, len(hs))
	for _, h := range hs {
		out = append(out, day.Add(time.Duration(h)*time.Hour))
	}
	return out
}

func TestFindNearestHourIndex(t *testing.T) {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	series := hours(day, 17, 18, 19)

	tests := []struct {
		name   string
		target time.Time
		want   int
	}{
		{name: "closer to following hour", target: day.Add(18*time.Hour + 40*time.Minute), want: 2},
		{name: "closer to preceding hour", target: day.Add(17*time.Hour + 5*time.Minute), want: 0},
		{name: "exact match", target: day.Add(18 * time.Hour), want: 1},
		{name: "tie favors earlier", target: day.Add(17*time.Hour + 30*time.Minute), want: 0},
		{name: "before first sample", target: day.Add(9 * time.Hour), want: 0},
		{name: "after last sample", target: day.Add(23 * time.Hour), want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindNearestHourIndex(tt.target, series)
			if err != nil {
				t.Fatalf("FindNearestHourIndex() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("FindNearestHourIndex() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFindNearestHourIndex_SingleSample(t *testing.T) {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	got, err := FindNearestHourIndex(day.Add(5*time.Hour), hours(day, 1))
	if err != nil || got != 0 {
		t.Fatalf("FindNearestHourIndex() = %d, %v; want 0, nil", got, err)
	}
}

func TestFindNearestHourIndex_Empty(t *testing.T) {
	_, err := FindNearestHourIndex(time.Now(), nil)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
}
