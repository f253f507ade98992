// Package cwa implements weather.Provider against the Central Weather
// Administration open-data datastore.
package cwa

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/weathercard/weathercard/internal/provider/resilience"
	"github.com/weathercard/weathercard/internal/sun"
	"github.com/weathercard/weathercard/internal/weather"
)

const (
	// ProviderName identifies this weather provider.
	ProviderName = "cwa"

	// DefaultBaseURL is the CWA open-data REST datastore.
	DefaultBaseURL = "https://opendata.cwa.gov.tw/api/v1/rest/datastore"

	observationDataset = "O-A0003-001"
	forecastDataset    = "F-C0032-001"
)

// Forecast elements kept from the 36-hour forecast.
const (
	elementWeather         = "Wx"
	elementRainPossibility = "PoP"
	elementComfort         = "CI"
)

// ClientConfig holds configuration for the CWA client.
type ClientConfig struct {
	// APIKey is the CWA authorization key (required).
	APIKey string

	// BaseURL is the datastore base URL (optional, defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a CWA open-data client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new CWA client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// CurrentObservation fetches the latest observation for a weather station.
func (c *Client) CurrentObservation(ctx context.Context, stationName string) (*weather.Observation, error) {
	var resp observationResponse
	if err := c.get(ctx, observationDataset, url.Values{"StationName": {stationName}}, &resp); err != nil {
		return nil, err
	}
	return toObservation(&resp)
}

// Forecast fetches the first window of the 36-hour forecast for a region.
func (c *Client) Forecast(ctx context.Context, regionName string) (*weather.Forecast, error) {
	var resp forecastResponse
	if err := c.get(ctx, forecastDataset, url.Values{"locationName": {regionName}}, &resp); err != nil {
		return nil, err
	}
	return toForecast(&resp)
}

func (c *Client) get(ctx context.Context, dataset string, query url.Values, out any) error {
	query.Set("Authorization", c.apiKey)
	endpoint := c.baseURL + "/" + dataset + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: requesting %s: %w", weather.ErrNetworkFailure, dataset, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("dataset", dataset).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("cwa request completed")

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned status %d", weather.ErrNetworkFailure, dataset, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s: %w", weather.ErrMalformedResponse, dataset, err)
	}
	return nil
}

func toObservation(resp *observationResponse) (*weather.Observation, error) {
	if len(resp.Records.Station) == 0 {
		return nil, fmt.Errorf("%w: no station in observation", weather.ErrMalformedResponse)
	}
	station := resp.Records.Station[0]

	obs := &weather.Observation{
		StationName: station.StationName,
		WindSpeed:   float64(station.WeatherElement.WindSpeed),
		Temperature: float64(station.WeatherElement.AirTemperature),
	}

	if station.ObsTime.DateTime == "" {
		return nil, fmt.Errorf("%w: missing observation time", weather.ErrMalformedResponse)
	}
	observedAt, err := parseObsTime(station.ObsTime.DateTime)
	if err != nil {
		return nil, fmt.Errorf("%w: observation time %q", weather.ErrMalformedResponse, station.ObsTime.DateTime)
	}
	obs.ObservedAt = observedAt

	return obs, nil
}

func toForecast(resp *forecastResponse) (*weather.Forecast, error) {
	if len(resp.Records.Location) == 0 {
		return nil, fmt.Errorf("%w: no location in forecast", weather.ErrMalformedResponse)
	}

	// Only the first window of each kept element is used.
	first := make(map[string]forecastParameter, 3)
	for _, el := range resp.Records.Location[0].WeatherElement {
		switch el.ElementName {
		case elementWeather, elementRainPossibility, elementComfort:
		default:
			continue
		}
		if len(el.Time) == 0 {
			return nil, fmt.Errorf("%w: element %s has no time window", weather.ErrMalformedResponse, el.ElementName)
		}
		first[el.ElementName] = el.Time[0].Parameter
	}

	for _, name := range []string{elementWeather, elementRainPossibility, elementComfort} {
		if _, ok := first[name]; !ok {
			return nil, fmt.Errorf("%w: missing element %s", weather.ErrMalformedResponse, name)
		}
	}

	wx := first[elementWeather]
	code, err := strconv.Atoi(strings.TrimSpace(wx.ParameterValue))
	if err != nil {
		return nil, fmt.Errorf("%w: weather code %q", weather.ErrMalformedResponse, wx.ParameterValue)
	}

	return &weather.Forecast{
		Description:     wx.ParameterName,
		WeatherCode:     code,
		RainPossibility: first[elementRainPossibility].ParameterName,
		Comfortability:  first[elementComfort].ParameterName,
	}, nil
}

// Observation timestamps carry an offset; older payloads use a space-separated
// local time, read as Taipei time.
var obsTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseObsTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range obsTimeLayouts {
		t, err := time.ParseInLocation(layout, s, sun.Taipei)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
