package weather

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// fetchMetrics holds the instruments for fetch cycles.
type fetchMetrics struct {
	cycleDuration metric.Float64Histogram
	cycleTotal    metric.Int64Counter
}

func newFetchMetrics() (*fetchMetrics, error) {
	meter := otel.Meter(instrumentationName)

	cycleDuration, err := meter.Float64Histogram(
		"weather.fetch.duration",
		metric.WithDescription("Duration of weather fetch cycles in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	cycleTotal, err := meter.Int64Counter(
		"weather.fetch.total",
		metric.WithDescription("Total number of weather fetch cycles"),
		metric.WithUnit("{cycle}"),
	)
	if err != nil {
		return nil, err
	}

	return &fetchMetrics{
		cycleDuration: cycleDuration,
		cycleTotal:    cycleTotal,
	}, nil
}

func (m *fetchMetrics) record(ctx context.Context, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	// The cycle context may already be cancelled.
	ctx = context.WithoutCancel(ctx)
	attrs := metric.WithAttributes(attribute.String("weather.outcome", outcome))
	m.cycleDuration.Record(ctx, duration.Seconds(), attrs)
	m.cycleTotal.Add(ctx, 1, attrs)
}
