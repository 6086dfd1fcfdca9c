package window

import (
	"fmt"
	"time"

	"github.com/KasumiMercury/primind-sunset-notification/internal/domain"
)

const (
	DefaultThreshold = 80.0
	DefaultLead      = 15 * time.Minute
)

// OffsetPolicy controls UTC offsets that are not whole hours.
type OffsetPolicy string

const (
	// OffsetExact applies the offset at second precision.
	OffsetExact OffsetPolicy = "exact"
	// OffsetSkip refuses non-whole-hour offsets.
	OffsetSkip OffsetPolicy = "skip"
)

// Policy decides whether a score is worth announcing right now.
type Policy struct {
	Threshold float64
	Lead      time.Duration
	Offsets   OffsetPolicy
}

func DefaultPolicy() Policy {
	return Policy{
		Threshold: DefaultThreshold,
		Lead:      DefaultLead,
		Offsets:   OffsetExact,
	}
}

func (p Policy) Validate() error {
	if p.Threshold < 0 || p.Threshold > 100 {
		return fmt.Errorf("%w: threshold %v outside [0,100]", domain.ErrInvalidInput, p.Threshold)
	}
	if p.Lead <= 0 {
		return fmt.Errorf("%w: notification lead must be positive", domain.ErrInvalidInput)
	}
	if p.Offsets != OffsetExact && p.Offsets != OffsetSkip {
		return fmt.Errorf("%w: unknown offset policy %q", domain.ErrInvalidInput, p.Offsets)
	}
	return nil
}

// Instant interprets a local civil timestamp at the given UTC offset.
func (p Policy) Instant(civil time.Time, utcOffsetSeconds int) (time.Time, error) {
	if p.Offsets == OffsetSkip && utcOffsetSeconds%3600 != 0 {
		return time.Time{}, fmt.Errorf("%w: utc offset %ds is not a whole hour", domain.ErrInvalidInput, utcOffsetSeconds)
	}
	return CivilToInstant(civil, utcOffsetSeconds), nil
}

// CivilToInstant reads the wall clock of civil as local time at the offset.
func CivilToInstant(civil time.Time, utcOffsetSeconds int) time.Time {
	zone := time.FixedZone("", utcOffsetSeconds)
	return time.Date(civil.Year(), civil.Month(), civil.Day(),
		civil.Hour(), civil.Minute(), civil.Second(), civil.Nanosecond(), zone)
}

// MinutesToSunset is the signed, fractional minute distance from now to sunset.
func MinutesToSunset(sunset, now time.Time) float64 {
	return float64(sunset.Sub(now).Milliseconds()) / 60000
}

// IsActionable reports whether score clears the threshold and sunset, given
// as a local civil time, falls within the lead window after now.
func (p Policy) IsActionable(score float64, sunsetCivil, now time.Time, utcOffsetSeconds int) bool {
	sunset, err := p.Instant(sunsetCivil, utcOffsetSeconds)
	if err != nil {
		return false
	}
	return p.IsActionableAt(score, sunset, now)
}

// IsActionableAt is IsActionable for an already resolved sunset instant.
func (p Policy) IsActionableAt(score float64, sunset, now time.Time) bool {
	if score < p.Threshold {
		return false
	}
	minutes := MinutesToSunset(sunset, now)
	return minutes > 0 && minutes <= p.Lead.Minutes()
}
