package domain

import (
	"math"
	"time"
)

// Missing marks a reading the provider did not report.
var Missing = math.NaN()

func IsMissing(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// WeatherSample is a snapshot of the conditions at one instant. Any field
// may be Missing.
type WeatherSample struct {
	CloudCoverPercent               float64
	RelativeHumidityPercent         float64
	VisibilityMeters                float64
	WindSpeed                       float64
	PrecipitationProbabilityPercent float64
	PressureHPa                     float64
}

func EmptyWeatherSample() WeatherSample {
	return WeatherSample{
		CloudCoverPercent:               Missing,
		RelativeHumidityPercent:         Missing,
		VisibilityMeters:                Missing,
		WindSpeed:                       Missing,
		PrecipitationProbabilityPercent: Missing,
		PressureHPa:                     Missing,
	}
}

// AirQualitySample carries the fine particulate concentration in µg/m³.
type AirQualitySample struct {
	PM25 float64
}

// Forecast times are local civil timestamps: wall clock of the location
// stored in a time.Time with UTC location. UTCOffsetSeconds converts them
// into instants.

type WeatherForecast struct {
	Timezone         string
	UTCOffsetSeconds int
	Current          *WeatherSample
	CurrentTime      time.Time
	HourlyTimes      []time.Time
	Hourly           []WeatherSample
	SunsetTimes      []time.Time
}

type AirQualityForecast struct {
	UTCOffsetSeconds int
	Current          *AirQualitySample
	HourlyTimes      []time.Time
	Hourly           []AirQualitySample
}
