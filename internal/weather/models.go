package weather

import (
	"context"
	"errors"
	"time"
)

// Weather errors.
var (
	// ErrNetworkFailure means a provider request did not complete: transport
	// error, timeout, or a non-200 answer.
	ErrNetworkFailure = errors.New("weather provider request failed")

	// ErrMalformedResponse means the provider answered but a required field
	// was missing or unparsable.
	ErrMalformedResponse = errors.New("malformed weather provider response")

	// ErrSuperseded is returned by a fetch cycle that was replaced by a newer
	// one before it could publish.
	ErrSuperseded = errors.New("fetch cycle superseded")
)

// Provider defines the interface for weather data providers.
type Provider interface {
	// CurrentObservation fetches the latest observation of a station.
	CurrentObservation(ctx context.Context, stationName string) (*Observation, error)

	// Forecast fetches the nearest forecast window for a region.
	Forecast(ctx context.Context, regionName string) (*Forecast, error)

	// Name returns the provider name for logging.
	Name() string
}

// Observation is the normalized current-conditions record of one station.
type Observation struct {
	StationName string

	// Wind speed in m/s
	WindSpeed float64

	// Air temperature in Celsius
	Temperature float64

	ObservedAt time.Time
}

// Forecast is the normalized first window of the 36-hour regional forecast.
type Forecast struct {
	Description     string
	WeatherCode     int
	RainPossibility string
	Comfortability  string
}

// Snapshot is the display-ready result of one fetch cycle.
type Snapshot struct {
	StationName     string    `json:"stationName"`
	Description     string    `json:"description"`
	WindSpeed       float64   `json:"windSpeed"`
	Temperature     float64   `json:"temperature"`
	RainPossibility string    `json:"rainPossibility"`
	ObservationTime time.Time `json:"observationTime"`
	Comfortability  string    `json:"comfortability"`
	WeatherCode     int       `json:"weatherCode"`
	IsLoading       bool      `json:"isLoading"`
}

// InitialSnapshot is the placeholder shown before the first cycle completes.
func InitialSnapshot(now time.Time) Snapshot {
	return Snapshot{
		RainPossibility: "0",
		ObservationTime: now,
		IsLoading:       true,
	}
}

// merge builds a complete snapshot from both halves of a successful cycle.
func merge(obs *Observation, fc *Forecast) Snapshot {
	return Snapshot{
		StationName:     obs.StationName,
		Description:     fc.Description,
		WindSpeed:       obs.WindSpeed,
		Temperature:     obs.Temperature,
		RainPossibility: fc.RainPossibility,
		ObservationTime: obs.ObservedAt,
		Comfortability:  fc.Comfortability,
		WeatherCode:     fc.WeatherCode,
		IsLoading:       false,
	}
}
