package domain

import "context"

//go:generate mockgen -source=provider.go -destination=provider_mock.go -package=domain

type WeatherProvider interface {
	Forecast(ctx context.Context, coords Coordinates) (*WeatherForecast, error)
}

type AirQualityProvider interface {
	AirQuality(ctx context.Context, coords Coordinates) (*AirQualityForecast, error)
}

type Geocoder interface {
	// Search returns the best match for name or ErrLocationNotFound.
	Search(ctx context.Context, name string) (*Location, error)
}
