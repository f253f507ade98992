package preference

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/weathercard/weathercard/internal/location"
)

// ErrUnknownRegion is returned when saving a region that is not in the directory.
var ErrUnknownRegion = errors.New("unknown region")

// ServiceConfig holds configuration for the preference service.
type ServiceConfig struct {
	Repository Repository
	Logger     zerolog.Logger

	// DefaultRegion is used when nothing usable is stored (default: 臺北市).
	DefaultRegion string
}

// Service reads and writes the preferred region.
type Service struct {
	repo          Repository
	logger        zerolog.Logger
	defaultRegion location.Region
}

// NewService creates a new preference service.
func NewService(cfg ServiceConfig) (*Service, error) {
	name := cfg.DefaultRegion
	if name == "" {
		name = location.DefaultRegionName
	}
	region, ok := location.FindRegion(name)
	if !ok {
		return nil, fmt.Errorf("default region %q: %w", name, ErrUnknownRegion)
	}

	return &Service{
		repo:          cfg.Repository,
		logger:        cfg.Logger,
		defaultRegion: region,
	}, nil
}

// DefaultRegion returns the region used when no preference is stored.
func (s *Service) DefaultRegion() location.Region {
	return s.defaultRegion
}

// PreferredRegion returns the stored region. A missing, unrecognized or
// unreadable value yields the default region.
func (s *Service) PreferredRegion(ctx context.Context) location.Region {
	region, err := s.LookupPreferredRegion(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to read preferred region, using default")
		return s.defaultRegion
	}
	return region
}

// LookupPreferredRegion is PreferredRegion without the fallback for read
// failures: a missing or unrecognized value still yields the default region,
// but a store error is returned.
func (s *Service) LookupPreferredRegion(ctx context.Context) (location.Region, error) {
	name, err := s.repo.Get(ctx, KeyCityName)
	if errors.Is(err, ErrNotFound) {
		return s.defaultRegion, nil
	}
	if err != nil {
		return location.Region{}, fmt.Errorf("reading preferred region: %w", err)
	}

	region, ok := location.FindRegion(name)
	if !ok {
		s.logger.Warn().Str("stored", name).Msg("stored region not in directory, using default")
		return s.defaultRegion, nil
	}
	return region, nil
}

// SavePreferredRegion persists a region name from the directory.
func (s *Service) SavePreferredRegion(ctx context.Context, name string) (location.Region, error) {
	region, ok := location.FindRegion(name)
	if !ok {
		return location.Region{}, fmt.Errorf("%w: %q", ErrUnknownRegion, name)
	}

	if err := s.repo.Set(ctx, KeyCityName, region.Name); err != nil {
		return location.Region{}, fmt.Errorf("saving preferred region: %w", err)
	}

	s.logger.Info().Str("region", region.Name).Msg("preferred region saved")
	return region, nil
}
