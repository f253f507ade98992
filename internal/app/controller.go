// Package app owns the presentation state of the weather card: the selected
// region, the day/night moment and theme, and which page is showing.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/weathercard/weathercard/internal/location"
	"github.com/weathercard/weathercard/internal/preference"
	"github.com/weathercard/weathercard/internal/sun"
	"github.com/weathercard/weathercard/internal/weather"
)

// Page is the view currently shown.
type Page string

const (
	PageWeatherCard    Page = "weather-card"
	PageWeatherSetting Page = "weather-setting"
)

// State is the presentation state.
type State struct {
	Region location.Region
	Moment sun.Moment
	Theme  sun.Theme
	Page   Page
}

// ControllerConfig holds the controller's collaborators.
type ControllerConfig struct {
	Preferences *preference.Service
	Fetcher     *weather.Fetcher
	Resolver    *sun.Resolver
	Logger      zerolog.Logger

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Controller coordinates the preference store, the day/night resolver and the
// weather fetcher.
type Controller struct {
	prefs    *preference.Service
	fetcher  *weather.Fetcher
	resolver *sun.Resolver
	logger   zerolog.Logger
	now      func() time.Time

	// regionMu serializes region changes so the stored value, the state and
	// the fetcher target move together.
	regionMu sync.Mutex

	mu    sync.RWMutex
	state State
}

// NewController creates a controller showing the card for the default region
// in the light theme. Call Start or Load before serving it.
func NewController(cfg ControllerConfig) *Controller {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Controller{
		prefs:    cfg.Preferences,
		fetcher:  cfg.Fetcher,
		resolver: cfg.Resolver,
		logger:   cfg.Logger,
		now:      now,
		state: State{
			Region: cfg.Preferences.DefaultRegion(),
			Moment: sun.MomentDay,
			Theme:  sun.ThemeLight,
			Page:   PageWeatherCard,
		},
	}
}

// Load reads the preferred region, resolves the moment and keys the fetcher
// to the region without fetching.
func (c *Controller) Load(ctx context.Context) State {
	c.regionMu.Lock()
	defer c.regionMu.Unlock()

	region := c.prefs.PreferredRegion(ctx)
	c.applyRegion(region, "")

	c.logger.Info().
		Str("region", region.Name).
		Str("station", region.StationName).
		Msg("controller loaded")

	return c.State()
}

// Start is Load followed by the first fetch cycle, which runs under ctx.
func (c *Controller) Start(ctx context.Context) State {
	state := c.Load(ctx)
	c.fetcher.RefreshAsync(ctx)
	return state
}

// State returns a copy of the presentation state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Refresh runs a fetch cycle for the current region and waits for it.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.fetcher.Refresh(ctx)
}

// RefreshAsync starts a fetch cycle for the current region.
func (c *Controller) RefreshAsync(ctx context.Context) {
	c.fetcher.RefreshAsync(ctx)
}

// OpenSettings switches to the settings page.
func (c *Controller) OpenSettings() State {
	return c.setPage(PageWeatherSetting)
}

// CancelSettings returns to the card without saving.
func (c *Controller) CancelSettings() State {
	return c.setPage(PageWeatherCard)
}

func (c *Controller) setPage(p Page) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Page = p
	return c.state
}

// SaveRegion persists a new preferred region and returns to the card. When
// the region changed, the moment is re-resolved and one fetch cycle starts
// under a context detached from ctx's cancellation.
func (c *Controller) SaveRegion(ctx context.Context, name string) (State, error) {
	c.regionMu.Lock()
	defer c.regionMu.Unlock()

	region, err := c.prefs.SavePreferredRegion(ctx, name)
	if err != nil {
		return c.State(), fmt.Errorf("saving region: %w", err)
	}

	if c.applyRegion(region, PageWeatherCard) {
		c.logger.Info().
			Str("region", region.Name).
			Str("station", region.StationName).
			Msg("region changed, refreshing")
		c.fetcher.RefreshAsync(context.WithoutCancel(ctx))
	}

	return c.State(), nil
}

// SyncRegion picks up a preferred region written by another process sharing
// the store. When it differs from the current one, the controller switches to
// it and starts a fetch cycle under ctx. A store error leaves the state alone.
func (c *Controller) SyncRegion(ctx context.Context) (bool, error) {
	c.regionMu.Lock()
	defer c.regionMu.Unlock()

	region, err := c.prefs.LookupPreferredRegion(ctx)
	if err != nil {
		return false, fmt.Errorf("syncing region: %w", err)
	}
	if region.Name == c.State().Region.Name {
		return false, nil
	}

	if c.applyRegion(region, "") {
		c.logger.Info().
			Str("region", region.Name).
			Str("station", region.StationName).
			Msg("stored region changed, refreshing")
		c.fetcher.RefreshAsync(ctx)
	}
	return true, nil
}

// applyRegion switches the state to region, optionally changing the page,
// re-resolves the moment and keys the fetcher. It reports whether the fetcher
// target changed. Callers hold regionMu.
func (c *Controller) applyRegion(region location.Region, page Page) bool {
	c.mu.Lock()
	c.state.Region = region
	if page != "" {
		c.state.Page = page
	}
	c.mu.Unlock()

	c.ResolveMoment(c.now())
	return c.fetcher.SetTarget(region.StationName, region.Name)
}

// ResolveMoment re-evaluates day or night for the current region at now and
// updates the theme to match.
func (c *Controller) ResolveMoment(now time.Time) sun.Moment {
	c.mu.RLock()
	region := c.state.Region
	c.mu.RUnlock()

	moment := c.resolver.ResolveAt(region.SunriseRegionName, now)

	c.mu.Lock()
	defer c.mu.Unlock()

	// The region may have changed while resolving; the next evaluation picks it up.
	if c.state.Region.Name != region.Name {
		return c.state.Moment
	}
	if c.state.Moment != moment {
		c.logger.Debug().
			Str("region", region.Name).
			Str("moment", string(moment)).
			Msg("moment changed")
	}
	c.state.Moment = moment
	c.state.Theme = moment.Theme()
	return moment
}

// FetchStatus reports the fetcher's last error and last success time.
func (c *Controller) FetchStatus() (lastErr error, lastSuccess time.Time) {
	return c.fetcher.LastError(), c.fetcher.LastSuccessAt()
}
