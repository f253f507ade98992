package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/weathercard/weathercard/internal/app"
	"github.com/weathercard/weathercard/internal/preference"
	"github.com/weathercard/weathercard/internal/weather"
)

// Command errors.
var (
	ErrMalformedCommand = errors.New("malformed command")
	ErrUnknownJobType   = errors.New("unknown job type")
)

// Controller is the part of the weather card controller commands drive.
type Controller interface {
	Refresh(ctx context.Context) error
	SaveRegion(ctx context.Context, name string) (app.State, error)
}

// Command is one remote command message.
type Command struct {
	JobType    string `json:"job_type"`
	RegionName string `json:"region_name,omitempty"`
}

// ParseCommand decodes and checks a command payload.
func ParseCommand(data []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return cmd, fmt.Errorf("%w: %w", ErrMalformedCommand, err)
	}

	switch cmd.JobType {
	case JobWeatherRefresh:
	case JobRegionChange:
		if cmd.RegionName == "" {
			return cmd, fmt.Errorf("%w: region_change without region_name", ErrMalformedCommand)
		}
	default:
		return cmd, fmt.Errorf("%w: %q", ErrUnknownJobType, cmd.JobType)
	}
	return cmd, nil
}

// Disposition tells the subscriber what to do with a delivery.
type Disposition int

const (
	// Ack removes the message: it succeeded or can never succeed.
	Ack Disposition = iota
	// Nack asks for redelivery.
	Nack
)

// CommandRunner applies commands to a controller and counts outcomes.
type CommandRunner struct {
	controller Controller
	timeout    time.Duration
	logger     zerolog.Logger

	mu      sync.Mutex
	metrics RunnerMetrics
}

// RunnerMetrics counts processed commands.
type RunnerMetrics struct {
	Processed     int64
	Refreshes     int64
	RegionChanges int64
	Rejected      int64
	Failed        int64
	LastCommandAt time.Time
}

// NewCommandRunner creates a runner. A zero timeout uses the default.
func NewCommandRunner(controller Controller, timeout time.Duration, logger zerolog.Logger) *CommandRunner {
	if timeout <= 0 {
		timeout = DefaultConfig("", "").CommandTimeout
	}
	return &CommandRunner{
		controller: controller,
		timeout:    timeout,
		logger:     logger,
	}
}

// Handle parses and runs one payload and reports its disposition. Payloads
// that cannot succeed on redelivery are acked.
func (r *CommandRunner) Handle(ctx context.Context, data []byte) Disposition {
	cmd, err := ParseCommand(data)
	if err != nil {
		r.logger.Warn().Err(err).Msg("rejecting command")
		r.count(func(m *RunnerMetrics) { m.Rejected++ })
		return Ack
	}

	if err := r.Run(ctx, cmd); err != nil {
		if errors.Is(err, preference.ErrUnknownRegion) {
			r.logger.Warn().Err(err).Str("region", cmd.RegionName).Msg("rejecting region change")
			r.count(func(m *RunnerMetrics) { m.Rejected++ })
			return Ack
		}
		r.logger.Error().Err(err).Str("job_type", cmd.JobType).Msg("command failed")
		r.count(func(m *RunnerMetrics) { m.Failed++ })
		return Nack
	}
	return Ack
}

// Run executes cmd under the runner's timeout.
func (r *CommandRunner) Run(ctx context.Context, cmd Command) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()

	switch cmd.JobType {
	case JobWeatherRefresh:
		err := r.controller.Refresh(ctx)
		// A newer cycle took over; it reports its own result.
		if err != nil && !errors.Is(err, weather.ErrSuperseded) {
			return fmt.Errorf("refreshing weather: %w", err)
		}
		r.count(func(m *RunnerMetrics) { m.Refreshes++ })

	case JobRegionChange:
		state, err := r.controller.SaveRegion(ctx, cmd.RegionName)
		if err != nil {
			return err
		}
		r.count(func(m *RunnerMetrics) { m.RegionChanges++ })
		r.logger.Info().Str("region", state.Region.Name).Msg("region changed by command")

	default:
		return fmt.Errorf("%w: %q", ErrUnknownJobType, cmd.JobType)
	}

	r.count(func(m *RunnerMetrics) {
		m.Processed++
		m.LastCommandAt = time.Now()
	})

	r.logger.Info().
		Str("job_type", cmd.JobType).
		Dur("duration", time.Since(start)).
		Msg("command completed")
	return nil
}

// Metrics returns a copy of the counters.
func (r *CommandRunner) Metrics() RunnerMetrics {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.metrics
}

func (r *CommandRunner) count(update func(*RunnerMetrics)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	update(&r.metrics)
}
