package sun

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// Moment is the day/night classification of an instant in a region.
type Moment string

const (
	MomentDay   Moment = "day"
	MomentNight Moment = "night"
)

// Theme is the visual theme name selected by a Moment.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Theme returns light for day and dark for anything else.
func (m Moment) Theme() Theme {
	if m == MomentDay {
		return ThemeLight
	}
	return ThemeDark
}

// Resolver wraps a Table and degrades lookup failures to a fallback moment.
type Resolver struct {
	table    *Table
	logger   zerolog.Logger
	fallback Moment
	now      func() time.Time
}

// ResolverConfig holds configuration for a Resolver.
type ResolverConfig struct {
	Table  *Table
	Logger zerolog.Logger

	// Fallback is returned when the table has no answer (default: day, which
	// keeps the light theme the application starts with).
	Fallback Moment

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// NewResolver creates a Resolver.
func NewResolver(cfg ResolverConfig) *Resolver {
	fallback := cfg.Fallback
	if fallback == "" {
		fallback = MomentDay
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Resolver{
		table:    cfg.Table,
		logger:   cfg.Logger,
		fallback: fallback,
		now:      now,
	}
}

// Resolve returns the moment for the region at the current instant.
// A missing region or day is logged and answered with the fallback.
func (r *Resolver) Resolve(sunriseRegionName string) Moment {
	return r.ResolveAt(sunriseRegionName, r.now())
}

// ResolveAt is Resolve for an explicit instant.
func (r *Resolver) ResolveAt(sunriseRegionName string, now time.Time) Moment {
	if r.table == nil {
		r.logger.Warn().
			Str("region", sunriseRegionName).
			Msg("no sunrise/sunset table loaded, using fallback moment")
		return r.fallback
	}

	m, err := r.table.ResolveMoment(sunriseRegionName, now)
	if err != nil {
		event := r.logger.Error()
		if errors.Is(err, ErrNotFound) {
			event = r.logger.Warn()
		}
		event.Err(err).
			Str("region", sunriseRegionName).
			Str("fallback", string(r.fallback)).
			Msg("cannot resolve moment, using fallback")
		return r.fallback
	}

	return m
}
