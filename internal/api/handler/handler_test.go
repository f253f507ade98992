package handler_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/weathercard/weathercard/internal/app"
	"github.com/weathercard/weathercard/internal/preference"
	"github.com/weathercard/weathercard/internal/sun"
	"github.com/weathercard/weathercard/internal/weather"
)

type fakeProvider struct {
	mu       sync.Mutex
	fail     bool
	stations []string
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) CurrentObservation(_ context.Context, station string) (*weather.Observation, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stations = append(p.stations, station)
	if p.fail {
		return nil, errors.New("connection refused")
	}
	return &weather.Observation{
		StationName: station,
		WindSpeed:   2.1,
		Temperature: 24.4,
		ObservedAt:  time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC),
	}, nil
}

func (p *fakeProvider) Forecast(_ context.Context, _ string) (*weather.Forecast, error) {
	return &weather.Forecast{
		Description:     "多雲時陰",
		WeatherCode:     4,
		RainPossibility: "20",
		Comfortability:  "舒適至悶熱",
	}, nil
}

func (p *fakeProvider) stationCalls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.stations...)
}

type testEnv struct {
	controller *app.Controller
	fetcher    *weather.Fetcher
	provider   *fakeProvider
	repo       *preference.InMemoryRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	table, err := sun.NewTable([]sun.Record{
		{RegionName: "臺北市", Entries: []sun.Entry{{Date: "2026-10-19", Sunrise: "05:54", Sunset: "17:24"}}},
		{RegionName: "高雄市", Entries: []sun.Entry{{Date: "2026-10-19", Sunrise: "05:55", Sunset: "17:30"}}},
	}, sun.Taipei)
	require.NoError(t, err)

	env := &testEnv{
		provider: &fakeProvider{},
		repo:     preference.NewInMemoryRepository(),
	}

	prefs, err := preference.NewService(preference.ServiceConfig{Repository: env.repo, Logger: zerolog.Nop()})
	require.NoError(t, err)

	env.fetcher = weather.NewFetcher(weather.FetcherConfig{
		Provider: env.provider,
		Logger:   zerolog.Nop(),
		Timeout:  time.Second,
	})

	noon := time.Date(2026, 10, 19, 12, 0, 0, 0, sun.Taipei)
	env.controller = app.NewController(app.ControllerConfig{
		Preferences: prefs,
		Fetcher:     env.fetcher,
		Resolver:    sun.NewResolver(sun.ResolverConfig{Table: table, Logger: zerolog.Nop()}),
		Logger:      zerolog.Nop(),
		Now:         func() time.Time { return noon },
	})
	env.controller.Load(context.Background())
	return env
}

func (e *testEnv) waitSettled(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool {
		return !e.fetcher.Snapshot().IsLoading
	}, time.Second, 5*time.Millisecond)
}
