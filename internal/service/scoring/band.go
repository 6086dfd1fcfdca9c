package scoring

import (
	"math"

	"github.com/KasumiMercury/primind-sunset-notification/internal/domain"
)

// Band is the ideal interval of a banded score.
type Band struct {
	Start float64
	End   float64
}

var (
	CloudBand         = Band{Start: 40, End: 60}
	HumidityBand      = Band{Start: 0, End: 40}
	WindBand          = Band{Start: 0, End: 10}
	PrecipitationBand = Band{Start: 0, End: 5}
	PressureBand      = Band{Start: 1020, End: 1040}
	AerosolBand       = Band{Start: 12, End: 35}
)

func (b Band) Score(value float64) float64 {
	return CalculateScore(value, b.Start, b.End)
}

// CalculateScore returns the full component score inside
// [targetStart, targetEnd] and loses one point per unit of distance to the
// nearer edge outside it. Missing values score 0.
func CalculateScore(value, targetStart, targetEnd float64) float64 {
	if domain.IsMissing(value) {
		return 0
	}
	if value >= targetStart && value <= targetEnd {
		return domain.MaxComponentScore
	}

	var distance float64
	if value < targetStart {
		distance = targetStart - value
	} else {
		distance = value - targetEnd
	}

	return math.Max(0, domain.MaxComponentScore-distance)
}

// VisibilityScore ramps linearly to the full score at 20 km.
func VisibilityScore(visibilityMeters float64) float64 {
	if domain.IsMissing(visibilityMeters) || visibilityMeters <= 0 {
		return 0
	}
	return math.Min(domain.MaxComponentScore, visibilityMeters/1000/20*domain.MaxComponentScore)
}

// AerosolScore is the piecewise PM2.5 curve: a plateau up to 30 µg/m³,
// decay to 10 points at 60 µg/m³, then decay to 0 at 100 µg/m³.
func AerosolScore(pm25 float64) float64 {
	if domain.IsMissing(pm25) || pm25 < 0 {
		return 0
	}

	switch {
	case pm25 <= 30:
		return domain.MaxComponentScore
	case pm25 <= 60:
		return domain.MaxComponentScore - (pm25-30)/30*10
	default:
		return math.Max(0, 10-(pm25-60)/40*10)
	}
}

// BandedAerosolScore treats moderate haze (12–35 µg/m³) as ideal.
func BandedAerosolScore(pm25 float64) float64 {
	return AerosolBand.Score(pm25)
}
