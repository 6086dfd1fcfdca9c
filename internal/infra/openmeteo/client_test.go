package openmeteo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KasumiMercury/primind-sunset-notification/internal/domain"
)

const forecastBody = `{
  "timezone": "Europe/Lisbon",
  "utc_offset_seconds": 3600,
  "current": {"time": "2024-06-01T19:45", "cloud_cover": 50, "relative_humidity_2m": 30, "visibility": 24000, "wind_speed_10m": 5, "precipitation_probability": null, "pressure_msl": 1030},
  "hourly": {
    "time": ["2024-06-01T19:00", "2024-06-01T20:00", "2024-06-01T21:00"],
    "cloud_cover": [10, 50, null],
    "relative_humidity_2m": [60, 30, 20],
    "visibility": [10000, 24000, 30000],
    "wind_speed_10m": [3, 5, 8],
    "precipitation_probability": [0, 0, 10],
    "pressure_msl": [1015, 1030, 1031]
  },
  "daily": {"time": ["2024-06-01"], "sunset": ["2024-06-01T21:05"]}
}`

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	transport := NewTransport("openmeteo-test", server.Client(), BackoffConfig{
		MaxRetries:      2,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
	}, 1000, 100)

	return NewClient(Endpoints{
		ForecastURL:   server.URL + "/v1/forecast",
		AirQualityURL: server.URL + "/v1/air-quality",
		GeocodingURL:  server.URL + "/v1/search",
	}, transport)
}

func TestClientForecast(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/forecast", r.URL.Path)
		assert.Equal(t, "38.7", r.URL.Query().Get("latitude"))
		assert.Equal(t, "Europe/Lisbon", r.URL.Query().Get("timezone"))
		assert.Equal(t, "sunset", r.URL.Query().Get("daily"))
		_, _ = w.Write([]byte(forecastBody))
	})

	forecast, err := client.Forecast(context.Background(), domain.Coordinates{Latitude: 38.7, Longitude: -9.1, Timezone: "Europe/Lisbon"})
	require.NoError(t, err)

	assert.Equal(t, 3600, forecast.UTCOffsetSeconds)
	require.Len(t, forecast.SunsetTimes, 1)
	assert.Equal(t, time.Date(2024, 6, 1, 21, 5, 0, 0, time.UTC), forecast.SunsetTimes[0])

	require.Len(t, forecast.HourlyTimes, 3)
	require.Len(t, forecast.Hourly, 3)
	assert.Equal(t, 50.0, forecast.Hourly[1].CloudCoverPercent)
	assert.True(t, domain.IsMissing(forecast.Hourly[2].CloudCoverPercent))

	require.NotNil(t, forecast.Current)
	assert.Equal(t, 1030.0, forecast.Current.PressureHPa)
	assert.True(t, domain.IsMissing(forecast.Current.PrecipitationProbabilityPercent))
	assert.Equal(t, time.Date(2024, 6, 1, 19, 45, 0, 0, time.UTC), forecast.CurrentTime)
}

func TestClientForecastIncomplete(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "no sunset",
			body: `{"utc_offset_seconds": 0, "current": {"cloud_cover": 50}}`,
		},
		{
			name: "no samples",
			body: `{"utc_offset_seconds": 0, "daily": {"sunset": ["2024-06-01T21:05"]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Forecast(context.Background(), domain.Coordinates{Latitude: 1, Longitude: 1})
			assert.ErrorIs(t, err, domain.ErrProviderDataIncomplete)
		})
	}
}

func TestClientAirQuality(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/air-quality", r.URL.Path)
		assert.Equal(t, "pm2_5", r.URL.Query().Get("hourly"))
		_, _ = w.Write([]byte(`{
		  "utc_offset_seconds": 3600,
		  "current": {"time": "2024-06-01T19:45", "pm2_5": null},
		  "hourly": {"time": ["2024-06-01T20:00", "2024-06-01T21:00"], "pm2_5": [12.5, 40]}
		}`))
	})

	aq, err := client.AirQuality(context.Background(), domain.Coordinates{Latitude: 38.7, Longitude: -9.1})
	require.NoError(t, err)

	require.NotNil(t, aq.Current)
	assert.True(t, domain.IsMissing(aq.Current.PM25))
	require.Len(t, aq.Hourly, 2)
	assert.Equal(t, 40.0, aq.Hourly[1].PM25)
	assert.Equal(t, time.Date(2024, 6, 1, 21, 0, 0, 0, time.UTC), aq.HourlyTimes[1])
}

func TestClientSearch(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		body    string
		want    *domain.Location
		wantErr error
	}{
		{
			name:  "first result wins",
			query: "Lisbon",
			body:  `{"results":[{"id":2267057,"name":"Lisbon","country":"Portugal","latitude":38.71667,"longitude":-9.13333,"timezone":"Europe/Lisbon"}]}`,
			want: &domain.Location{
				ID: 2267057, City: "Lisbon", Country: "Portugal",
				Latitude: 38.71667, Longitude: -9.13333, Timezone: "Europe/Lisbon",
			},
		},
		{
			name:    "no results",
			query:   "Nowhere",
			body:    `{"generationtime_ms":0.5}`,
			wantErr: domain.ErrLocationNotFound,
		},
		{
			name:    "blank name",
			query:   "  ",
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.query, r.URL.Query().Get("name"))
				_, _ = w.Write([]byte(tt.body))
			})

			got, err := client.Search(context.Background(), tt.query)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransportRetries(t *testing.T) {
	tests := []struct {
		name         string
		statuses     []int
		wantErr      error
		wantRequests int32
	}{
		{
			name:         "recovers after server error",
			statuses:     []int{http.StatusInternalServerError, http.StatusOK},
			wantRequests: 2,
		},
		{
			name:         "recovers after rate limit",
			statuses:     []int{http.StatusTooManyRequests, http.StatusOK},
			wantRequests: 2,
		},
		{
			name:         "gives up after max retries",
			statuses:     []int{http.StatusBadGateway, http.StatusBadGateway, http.StatusBadGateway, http.StatusOK},
			wantErr:      ErrServerError,
			wantRequests: 3,
		},
		{
			name:         "client error is not retried",
			statuses:     []int{http.StatusBadRequest, http.StatusOK},
			wantErr:      ErrUnexpectedStatus,
			wantRequests: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requests atomic.Int32
			client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				n := requests.Add(1)
				w.WriteHeader(tt.statuses[n-1])
				_, _ = w.Write([]byte(`{"results":[{"id":1,"name":"X","latitude":1,"longitude":1}]}`))
			})

			_, err := client.Search(context.Background(), "X")
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantRequests, requests.Load())
		})
	}
}

func TestTransportInvalidBackoff(t *testing.T) {
	transport := NewTransport("invalid", nil, BackoffConfig{MaxRetries: 1}, 1, 1)

	_, err := transport.Do(context.Background(), func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, "http://127.0.0.1", nil)
	})
	assert.ErrorIs(t, err, ErrInvalidBackoff)
}
