package weather

import (
	"context"
	"errors"
)

// ErrUnavailable is returned by providers when no weather data can be
// fetched for the given coordinates.
var ErrUnavailable = errors.New("weather data unavailable")

// Conditions is the subset of current weather the triage rules look at.
type Conditions struct {
	Temperature float64 `json:"temperature"` // °C
	RainMMH     float64 `json:"rain_mmh"`    // mm over the last hour
	SnowMMH     float64 `json:"snow_mmh"`
	WindSpeed   float64 `json:"wind_speed"` // m/s
	Condition   string  `json:"condition"`  // e.g. "Rain", "Thunderstorm"
	Description string  `json:"description"`
}

type Provider interface {
	Current(ctx context.Context, lat, lon float64) (Conditions, error)
}

// Disabled is the provider used when no API key is configured. Every lookup
// reports unavailable, which the adjuster turns into a zero boost.
type Disabled struct{}

func (Disabled) Current(ctx context.Context, lat, lon float64) (Conditions, error) {
	return Conditions{}, ErrUnavailable
}
