package weather

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const instrumentationName = "github.com/weathercard/weathercard/internal/weather"

// FetcherConfig holds configuration for the Fetcher.
type FetcherConfig struct {
	// Provider is the weather data provider.
	Provider Provider

	// Logger for fetch cycles.
	Logger zerolog.Logger

	// Timeout bounds each of the two sub-requests (default: 10 seconds).
	Timeout time.Duration

	// OnError receives every failed cycle's error. Optional.
	OnError func(error)

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Fetcher owns the current Snapshot and runs fetch cycles against a Provider.
//
// A cycle issues the observation and forecast requests concurrently and waits
// for both. Only the most recently started cycle may publish; starting a cycle
// cancels the one in flight.
type Fetcher struct {
	provider Provider
	logger   zerolog.Logger
	timeout  time.Duration
	onError  func(error)
	tracer   trace.Tracer
	metrics  *fetchMetrics
	now      func() time.Time

	mu         sync.RWMutex
	snapshot   Snapshot
	station    string
	region     string
	hasTarget  bool
	generation uint64
	cancel     context.CancelFunc
	lastErr    error
	lastOK     time.Time
}

// NewFetcher creates a Fetcher holding the initial loading snapshot.
func NewFetcher(cfg FetcherConfig) *Fetcher {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	metrics, err := newFetchMetrics()
	if err != nil {
		cfg.Logger.Warn().Err(err).Msg("fetch metrics disabled")
	}

	return &Fetcher{
		provider: cfg.Provider,
		logger:   cfg.Logger,
		timeout:  timeout,
		onError:  cfg.OnError,
		tracer:   otel.Tracer(instrumentationName),
		metrics:  metrics,
		now:      now,
		snapshot: InitialSnapshot(now()),
	}
}

// Snapshot returns a copy of the current snapshot.
func (f *Fetcher) Snapshot() Snapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.snapshot
}

// Target returns the station and region the fetcher is keyed to.
func (f *Fetcher) Target() (station, region string) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.station, f.region
}

// LastError returns the error of the last settled cycle, nil after a success.
func (f *Fetcher) LastError() error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.lastErr
}

// LastSuccessAt returns when a cycle last published, zero if never.
func (f *Fetcher) LastSuccessAt() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.lastOK
}

// SetTarget keys the fetcher to a station/region pair. It reports whether the
// pair changed (or was set for the first time); callers refresh when it did.
func (f *Fetcher) SetTarget(station, region string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.hasTarget && f.station == station && f.region == region {
		return false
	}
	f.station = station
	f.region = region
	f.hasTarget = true
	return true
}

// Refresh runs one fetch cycle and blocks until it settles.
func (f *Fetcher) Refresh(ctx context.Context) error {
	c := f.begin(ctx)
	return f.run(c)
}

// RefreshAsync starts a fetch cycle and returns once the snapshot is marked
// loading. The cycle continues under ctx.
func (f *Fetcher) RefreshAsync(ctx context.Context) {
	c := f.begin(ctx)
	go func() {
		_ = f.run(c) //nolint:errcheck // reported through logger and OnError
	}()
}

type cycle struct {
	ctx        context.Context
	cancel     context.CancelFunc
	generation uint64
	station    string
	region     string
	startedAt  time.Time
}

// begin marks the snapshot loading and supersedes any cycle in flight.
func (f *Fetcher) begin(ctx context.Context) cycle {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cancel != nil {
		f.cancel()
	}
	f.generation++

	cctx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.snapshot.IsLoading = true

	return cycle{
		ctx:        cctx,
		cancel:     cancel,
		generation: f.generation,
		station:    f.station,
		region:     f.region,
		startedAt:  f.now(),
	}
}

func (f *Fetcher) run(c cycle) error {
	defer c.cancel()

	ctx, span := f.tracer.Start(c.ctx, "weather.fetch_cycle",
		trace.WithAttributes(
			attribute.String("weather.provider", f.provider.Name()),
			attribute.String("weather.station", c.station),
			attribute.String("weather.region", c.region),
		),
	)
	defer span.End()

	logger := f.logger.With().
		Uint64("cycle", c.generation).
		Str("station", c.station).
		Str("region", c.region).
		Logger()

	logger.Debug().Str("provider", f.provider.Name()).Msg("starting fetch cycle")

	var (
		obs      *Observation
		fc       *Forecast
		obsErr   error
		fcErr    error
		requests errgroup.Group
	)

	requests.Go(func() error {
		rctx, cancel := context.WithTimeout(ctx, f.timeout)
		defer cancel()
		obs, obsErr = f.provider.CurrentObservation(rctx, c.station)
		obsErr = classifyError("current observation", obsErr)
		return obsErr
	})
	requests.Go(func() error {
		rctx, cancel := context.WithTimeout(ctx, f.timeout)
		defer cancel()
		fc, fcErr = f.provider.Forecast(rctx, c.region)
		fcErr = classifyError("forecast", fcErr)
		return fcErr
	})

	// Both requests have settled once Wait returns; the individual errors are
	// kept so neither failure is lost.
	_ = requests.Wait() //nolint:errcheck // errors captured per request above
	err := errors.Join(obsErr, fcErr)

	duration := f.now().Sub(c.startedAt)
	published, cycleErr := f.publish(c.generation, obs, fc, err)

	switch {
	case errors.Is(cycleErr, ErrSuperseded):
		logger.Debug().Dur("duration", duration).Msg("fetch cycle superseded")
		span.SetAttributes(attribute.String("weather.outcome", "superseded"))
		f.metrics.record(ctx, "superseded", duration)
	case cycleErr != nil:
		logger.Error().Err(cycleErr).Dur("duration", duration).Msg("fetch cycle failed, keeping previous snapshot")
		span.RecordError(cycleErr)
		span.SetStatus(codes.Error, cycleErr.Error())
		f.metrics.record(ctx, "failure", duration)
		if f.onError != nil {
			f.onError(cycleErr)
		}
	default:
		logger.Info().
			Dur("duration", duration).
			Int("weather_code", published.WeatherCode).
			Float64("temperature", published.Temperature).
			Msg("fetch cycle completed")
		span.SetAttributes(attribute.String("weather.outcome", "success"))
		f.metrics.record(ctx, "success", duration)
	}

	return cycleErr
}

// publish applies a settled cycle if it is still the latest one.
func (f *Fetcher) publish(generation uint64, obs *Observation, fc *Forecast, err error) (Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if generation != f.generation {
		return Snapshot{}, ErrSuperseded
	}
	f.cancel = nil

	if err != nil {
		// Prior fields stay as they were; only the loading flag settles.
		f.snapshot.IsLoading = false
		f.lastErr = err
		return f.snapshot, err
	}

	f.snapshot = merge(obs, fc)
	f.lastErr = nil
	f.lastOK = f.now()
	return f.snapshot, nil
}

// classifyError tags provider errors with a weather error kind.
func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrMalformedResponse) || errors.Is(err, ErrNetworkFailure) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrNetworkFailure, err)
}
