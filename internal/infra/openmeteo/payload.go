package openmeteo

import (
	"fmt"
	"time"

	"github.com/KasumiMercury/primind-sunset-notification/internal/domain"
)

const civilTimeLayout = "2006-01-02T15:04"

// Provider values arrive as nullable numbers. A null becomes domain.Missing.
type nullableSeries []*float64

func (s nullableSeries) at(i int) float64 {
	if i >= len(s) || s[i] == nil {
		return domain.Missing
	}
	return *s[i]
}

func value(v *float64) float64 {
	if v == nil {
		return domain.Missing
	}
	return *v
}

type weatherValues struct {
	CloudCover               *float64 `json:"cloud_cover"`
	RelativeHumidity         *float64 `json:"relative_humidity_2m"`
	Visibility               *float64 `json:"visibility"`
	WindSpeed                *float64 `json:"wind_speed_10m"`
	PrecipitationProbability *float64 `json:"precipitation_probability"`
	PressureMSL              *float64 `json:"pressure_msl"`
}

func (v weatherValues) sample() domain.WeatherSample {
	return domain.WeatherSample{
		CloudCoverPercent:               value(v.CloudCover),
		RelativeHumidityPercent:         value(v.RelativeHumidity),
		VisibilityMeters:                value(v.Visibility),
		WindSpeed:                       value(v.WindSpeed),
		PrecipitationProbabilityPercent: value(v.PrecipitationProbability),
		PressureHPa:                     value(v.PressureMSL),
	}
}

type forecastResponse struct {
	Timezone         string `json:"timezone"`
	UTCOffsetSeconds int    `json:"utc_offset_seconds"`
	Current          *struct {
		Time string `json:"time"`
		weatherValues
	} `json:"current"`
	Hourly *struct {
		Time                     []string       `json:"time"`
		CloudCover               nullableSeries `json:"cloud_cover"`
		RelativeHumidity         nullableSeries `json:"relative_humidity_2m"`
		Visibility               nullableSeries `json:"visibility"`
		WindSpeed                nullableSeries `json:"wind_speed_10m"`
		PrecipitationProbability nullableSeries `json:"precipitation_probability"`
		PressureMSL              nullableSeries `json:"pressure_msl"`
	} `json:"hourly"`
	Daily *struct {
		Time   []string `json:"time"`
		Sunset []string `json:"sunset"`
	} `json:"daily"`
}

func (r *forecastResponse) toDomain() (*domain.WeatherForecast, error) {
	if r.Daily == nil || len(r.Daily.Sunset) == 0 {
		return nil, fmt.Errorf("%w: forecast has no sunset times", domain.ErrProviderDataIncomplete)
	}

	sunsets, err := parseCivilTimes(r.Daily.Sunset)
	if err != nil {
		return nil, err
	}

	forecast := &domain.WeatherForecast{
		Timezone:         r.Timezone,
		UTCOffsetSeconds: r.UTCOffsetSeconds,
		SunsetTimes:      sunsets,
	}

	if r.Current != nil {
		sample := r.Current.sample()
		forecast.Current = &sample
		if r.Current.Time != "" {
			t, err := parseCivilTime(r.Current.Time)
			if err != nil {
				return nil, err
			}
			forecast.CurrentTime = t
		}
	}

	if r.Hourly != nil && len(r.Hourly.Time) > 0 {
		times, err := parseCivilTimes(r.Hourly.Time)
		if err != nil {
			return nil, err
		}

		hourly := make([]domain.WeatherSample, len(times))
		for i := range times {
			hourly[i] = domain.WeatherSample{
				CloudCoverPercent:               r.Hourly.CloudCover.at(i),
				RelativeHumidityPercent:         r.Hourly.RelativeHumidity.at(i),
				VisibilityMeters:                r.Hourly.Visibility.at(i),
				WindSpeed:                       r.Hourly.WindSpeed.at(i),
				PrecipitationProbabilityPercent: r.Hourly.PrecipitationProbability.at(i),
				PressureHPa:                     r.Hourly.PressureMSL.at(i),
			}
		}
		forecast.HourlyTimes = times
		forecast.Hourly = hourly
	}

	if forecast.Current == nil && len(forecast.Hourly) == 0 {
		return nil, fmt.Errorf("%w: forecast has neither current nor hourly data", domain.ErrProviderDataIncomplete)
	}

	return forecast, nil
}

type airQualityResponse struct {
	UTCOffsetSeconds int `json:"utc_offset_seconds"`
	Current          *struct {
		Time string   `json:"time"`
		PM25 *float64 `json:"pm2_5"`
	} `json:"current"`
	Hourly *struct {
		Time []string       `json:"time"`
		PM25 nullableSeries `json:"pm2_5"`
	} `json:"hourly"`
}

func (r *airQualityResponse) toDomain() (*domain.AirQualityForecast, error) {
	forecast := &domain.AirQualityForecast{
		UTCOffsetSeconds: r.UTCOffsetSeconds,
	}

	if r.Current != nil {
		forecast.Current = &domain.AirQualitySample{PM25: value(r.Current.PM25)}
	}

	if r.Hourly != nil && len(r.Hourly.Time) > 0 {
		times, err := parseCivilTimes(r.Hourly.Time)
		if err != nil {
			return nil, err
		}

		hourly := make([]domain.AirQualitySample, len(times))
		for i := range times {
			hourly[i] = domain.AirQualitySample{PM25: r.Hourly.PM25.at(i)}
		}
		forecast.HourlyTimes = times
		forecast.Hourly = hourly
	}

	if forecast.Current == nil && len(forecast.Hourly) == 0 {
		return nil, fmt.Errorf("%w: air quality has neither current nor hourly data", domain.ErrProviderDataIncomplete)
	}

	return forecast, nil
}

type geocodingResponse struct {
	Results []struct {
		ID        int64   `json:"id"`
		Name      string  `json:"name"`
		Country   string  `json:"country"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Timezone  string  `json:"timezone"`
	} `json:"results"`
}

func parseCivilTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(civilTimeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad timestamp %q", ErrDecode, s)
	}
	return t, nil
}

func parseCivilTimes(values []string) ([]time.Time, error) {
	out := make([]time.Time, len(values))
	for i, s := range values {
		t, err := parseCivilTime(s)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}
