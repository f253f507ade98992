// Package preference persists the user's preferred region.
package preference

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no value is stored under a key.
var ErrNotFound = errors.New("preference not found")

// KeyCityName is the key holding the preferred region name.
const KeyCityName = "cityName"

// Repository is a string key/value store for preferences.
type Repository interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set creates or replaces the value stored under key.
	Set(ctx context.Context, key, value string) error
}
