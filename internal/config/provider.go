package config

import "time"

const (
	openMeteoForecastURLEnv   = "OPENMETEO_FORECAST_URL"
	openMeteoAirQualityURLEnv = "OPENMETEO_AIR_QUALITY_URL"
	openMeteoGeocodingURLEnv  = "OPENMETEO_GEOCODING_URL"
	providerRatePerSecondEnv  = "PROVIDER_RATE_PER_SECOND"
	providerBurstEnv          = "PROVIDER_BURST"
	providerMaxRetriesEnv     = "PROVIDER_MAX_RETRIES"

	defaultForecastURL    = "https://api.open-meteo.com/v1/forecast"
	defaultAirQualityURL  = "https://air-quality-api.open-meteo.com/v1/air-quality"
	defaultGeocodingURL   = "https://geocoding-api.open-meteo.com/v1/search"
	defaultProviderRate   = 5
	defaultProviderBurst  = 5
	defaultProviderRetry  = 2
	defaultBackoffInitial = 500 * time.Millisecond
	defaultBackoffMax     = 5 * time.Second
)

type ProviderConfig struct {
	ForecastURL    string
	AirQualityURL  string
	GeocodingURL   string
	RatePerSecond  int
	Burst          int
	MaxRetries     int
	BackoffInitial time.Duration
	BackoffMax     time.Duration
}

func LoadProviderConfig() *ProviderConfig {
	return &ProviderConfig{
		ForecastURL:    getEnvOrDefault(openMeteoForecastURLEnv, defaultForecastURL),
		AirQualityURL:  getEnvOrDefault(openMeteoAirQualityURLEnv, defaultAirQualityURL),
		GeocodingURL:   getEnvOrDefault(openMeteoGeocodingURLEnv, defaultGeocodingURL),
		RatePerSecond:  positiveInt(providerRatePerSecondEnv, defaultProviderRate),
		Burst:          positiveInt(providerBurstEnv, defaultProviderBurst),
		MaxRetries:     positiveInt(providerMaxRetriesEnv, defaultProviderRetry),
		BackoffInitial: defaultBackoffInitial,
		BackoffMax:     defaultBackoffMax,
	}
}
