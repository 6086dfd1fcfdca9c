package domain

import (
	"fmt"
	"math"
	"strings"
)

// Location is a geocoded place a subscriber wants sunset alerts for.
// It is immutable once stored.
type Location struct {
	ID        int64   `json:"id"`
	City      string  `json:"city"`
	Country   string  `json:"country,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

func (l Location) Validate() error {
	if strings.TrimSpace(l.City) == "" {
		return fmt.Errorf("%w: location city is empty", ErrInvalidInput)
	}
	if math.IsNaN(l.Latitude) || l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidInput, l.Latitude)
	}
	if math.IsNaN(l.Longitude) || l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidInput, l.Longitude)
	}
	return nil
}

// Coordinates identify the point a provider is queried for.
type Coordinates struct {
	Latitude  float64
	Longitude float64
	Timezone  string
}

func (l Location) Coordinates() Coordinates {
	tz := l.Timezone
	if tz == "" {
		tz = "auto"
	}
	return Coordinates{
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		Timezone:  tz,
	}
}
