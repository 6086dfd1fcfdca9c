package scoring

import (
	"fmt"

	"github.com/KasumiMercury/primind-sunset-notification/internal/domain"
)

type AerosolPolicy string

const (
	AerosolPiecewise AerosolPolicy = "piecewise"
	AerosolBanded    AerosolPolicy = "banded"
)

type Rounding string

const (
	RoundingFractional Rounding = "fractional"
	RoundingNearest    Rounding = "nearest"
)

// Policy selects the readings behind the fourth and fifth sub-scores and
// the PM2.5 curve. One policy applies to a whole dispatch cycle.
type Policy struct {
	Fourth   domain.ComponentKind
	Fifth    domain.ComponentKind
	Aerosol  AerosolPolicy
	Rounding Rounding
}

func DefaultPolicy() Policy {
	return Policy{
		Fourth:   domain.ComponentPressure,
		Fifth:    domain.ComponentAerosol,
		Aerosol:  AerosolPiecewise,
		Rounding: RoundingFractional,
	}
}

func (p Policy) Validate() error {
	if p.Fourth != domain.ComponentWind && p.Fourth != domain.ComponentPressure {
		return fmt.Errorf("%w: fourth component must be wind or pressure, got %q", domain.ErrInvalidInput, p.Fourth)
	}
	if p.Fifth != domain.ComponentPrecipitation && p.Fifth != domain.ComponentAerosol {
		return fmt.Errorf("%w: fifth component must be precipitation or aerosol, got %q", domain.ErrInvalidInput, p.Fifth)
	}
	if p.Aerosol != AerosolPiecewise && p.Aerosol != AerosolBanded {
		return fmt.Errorf("%w: unknown aerosol policy %q", domain.ErrInvalidInput, p.Aerosol)
	}
	if p.Rounding != RoundingFractional && p.Rounding != RoundingNearest {
		return fmt.Errorf("%w: unknown rounding %q", domain.ErrInvalidInput, p.Rounding)
	}
	return nil
}

// NeedsAirQuality reports whether scoring consumes PM2.5 readings.
func (p Policy) NeedsAirQuality() bool {
	return p.Fifth == domain.ComponentAerosol
}
