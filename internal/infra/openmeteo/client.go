package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/KasumiMercury/primind-sunset-notification/internal/domain"
	"github.com/KasumiMercury/primind-sunset-notification/internal/observability/tracing"
)

var weatherVariables = strings.Join([]string{
	"cloud_cover",
	"relative_humidity_2m",
	"visibility",
	"wind_speed_10m",
	"precipitation_probability",
	"pressure_msl",
}, ",")

type Endpoints struct {
	ForecastURL   string
	AirQualityURL string
	GeocodingURL  string
}

// Client talks to the Open-Meteo forecast, air quality and geocoding APIs.
type Client struct {
	endpoints Endpoints
	transport *Transport
}

func NewClient(endpoints Endpoints, transport *Transport) *Client {
	return &Client{
		endpoints: endpoints,
		transport: transport,
	}
}

var (
	_ domain.WeatherProvider    = (*Client)(nil)
	_ domain.AirQualityProvider = (*Client)(nil)
	_ domain.Geocoder           = (*Client)(nil)
)

func coordinateValues(coords domain.Coordinates) url.Values {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	tz := coords.Timezone
	if tz == "" {
		tz = "auto"
	}
	values.Set("timezone", tz)
	return values
}

func (c *Client) Forecast(ctx context.Context, coords domain.Coordinates) (*domain.WeatherForecast, error) {
	values := coordinateValues(coords)
	values.Set("current", weatherVariables)
	values.Set("hourly", weatherVariables)
	values.Set("daily", "sunset")
	values.Set("forecast_days", "2")

	var payload forecastResponse
	if err := c.getJSON(ctx, "forecast", c.endpoints.ForecastURL, values, &payload); err != nil {
		return nil, err
	}

	return payload.toDomain()
}

func (c *Client) AirQuality(ctx context.Context, coords domain.Coordinates) (*domain.AirQualityForecast, error) {
	values := coordinateValues(coords)
	values.Set("current", "pm2_5")
	values.Set("hourly", "pm2_5")
	values.Set("forecast_days", "2")

	var payload airQualityResponse
	if err := c.getJSON(ctx, "air_quality", c.endpoints.AirQualityURL, values, &payload); err != nil {
		return nil, err
	}

	return payload.toDomain()
}

func (c *Client) Search(ctx context.Context, name string) (*domain.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: location name is empty", domain.ErrInvalidInput)
	}

	values := url.Values{}
	values.Set("name", name)
	values.Set("count", "1")
	values.Set("language", "en")
	values.Set("format", "json")

	var payload geocodingResponse
	if err := c.getJSON(ctx, "geocoding", c.endpoints.GeocodingURL, values, &payload); err != nil {
		return nil, err
	}

	if len(payload.Results) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrLocationNotFound, name)
	}

	r := payload.Results[0]
	loc := &domain.Location{
		ID:        r.ID,
		City:      r.Name,
		Country:   r.Country,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Timezone:  r.Timezone,
	}
	if err := loc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return loc, nil
}

func (c *Client) getJSON(ctx context.Context, operation, baseURL string, values url.Values, out any) (err error) {
	ctx, span := tracing.StartExternalAPISpan(ctx, "openmeteo."+operation, baseURL)
	defer func() {
		tracing.RecordResult(span, err)
		span.End()
	}()

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+values.Encode(), nil)
	}

	resp, err := c.transport.Do(ctx, buildRequest)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}
