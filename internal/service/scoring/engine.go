package scoring

import (
	"fmt"
	"math"

	"github.com/KasumiMercury/primind-sunset-notification/internal/domain"
)

const maxScore = 5 * domain.MaxComponentScore

type Engine struct {
	policy Policy
}

func NewEngine(policy Policy) (*Engine, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Engine{policy: policy}, nil
}

func (e *Engine) Policy() Policy {
	return e.policy
}

// Score rates one weather sample, plus the PM2.5 sample when the policy
// uses aerosol. Missing readings score their component as 0; only an
// absent weather sample is an error.
func (e *Engine) Score(weather *domain.WeatherSample, airQuality *domain.AirQualitySample) (domain.QualityScore, error) {
	if weather == nil {
		return domain.QualityScore{}, fmt.Errorf("%w: weather sample absent", domain.ErrProviderDataIncomplete)
	}

	components := domain.ScoreComponents{
		Cloud:      CloudBand.Score(weather.CloudCoverPercent),
		Humidity:   HumidityBand.Score(weather.RelativeHumidityPercent),
		Visibility: VisibilityScore(weather.VisibilityMeters),
		FourthKind: e.policy.Fourth,
		FifthKind:  e.policy.Fifth,
	}

	switch e.policy.Fourth {
	case domain.ComponentWind:
		components.Fourth = WindBand.Score(weather.WindSpeed)
	case domain.ComponentPressure:
		components.Fourth = PressureBand.Score(weather.PressureHPa)
	}

	switch e.policy.Fifth {
	case domain.ComponentPrecipitation:
		components.Fifth = PrecipitationBand.Score(weather.PrecipitationProbabilityPercent)
	case domain.ComponentAerosol:
		if airQuality != nil {
			components.Fifth = e.aerosol(airQuality.PM25)
		}
	}

	return domain.QualityScore{
		Value:      e.round(clamp(components.Sum())),
		Components: components,
	}, nil
}

func (e *Engine) aerosol(pm25 float64) float64 {
	if e.policy.Aerosol == AerosolBanded {
		return BandedAerosolScore(pm25)
	}
	return AerosolScore(pm25)
}

func (e *Engine) round(v float64) float64 {
	if e.policy.Rounding == RoundingNearest {
		return math.Round(v)
	}
	return v
}

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(maxScore, v))
}
