// Package worker consumes remote commands from Cloud Pub/Sub and applies them
// to the weather card controller.
package worker

import (
	"time"
)

// Job types accepted on the command subscription.
const (
	JobWeatherRefresh = "weather_refresh"
	JobRegionChange   = "region_change"
)

// Config holds configuration for the command subscriber.
type Config struct {
	ProjectID        string
	SubscriptionName string

	// MaxOutstandingMessages bounds concurrent deliveries.
	// Default: 4
	MaxOutstandingMessages int

	// MaxExtension is how long a delivery's ack deadline is extended.
	// Default: 2 minutes
	MaxExtension time.Duration

	// CommandTimeout bounds one command, including its fetch cycle.
	// Default: 30 seconds
	CommandTimeout time.Duration
}

// DefaultConfig returns the default subscriber configuration.
func DefaultConfig(projectID, subscription string) Config {
	return Config{
		ProjectID:              projectID,
		SubscriptionName:       subscription,
		MaxOutstandingMessages: 4,
		MaxExtension:           2 * time.Minute,
		CommandTimeout:         30 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig(c.ProjectID, c.SubscriptionName)
	if c.MaxOutstandingMessages <= 0 {
		c.MaxOutstandingMessages = d.MaxOutstandingMessages
	}
	if c.MaxExtension <= 0 {
		c.MaxExtension = d.MaxExtension
	}
	if c.CommandTimeout <= 0 {
		c.CommandTimeout = d.CommandTimeout
	}
	return c
}
