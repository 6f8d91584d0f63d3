package provider

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"fxrates/internal/rates"
)

var _ RatesSource = (*InstrumentedSource)(nil)

// InstrumentedSource records request count, error count and latency for each call.
type InstrumentedSource struct {
	source   RatesSource
	name     string
	requests metric.Int64Counter
	errors   metric.Int64Counter
	latency  metric.Float64Histogram
}

// NewInstrumentedSource wraps source with metric instruments created from meter.
func NewInstrumentedSource(source RatesSource, meter metric.Meter, name string) (*InstrumentedSource, error) {
	requests, err := meter.Int64Counter("fxrates.source.requests",
		metric.WithDescription("Rate source calls"))
	if err != nil {
		return nil, fmt.Errorf("create requests counter: %w", err)
	}
	errs, err := meter.Int64Counter("fxrates.source.errors",
		metric.WithDescription("Rate source calls that returned an error"))
	if err != nil {
		return nil, fmt.Errorf("create errors counter: %w", err)
	}
	latency, err := meter.Float64Histogram("fxrates.source.duration",
		metric.WithDescription("Rate source call latency"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, fmt.Errorf("create latency histogram: %w", err)
	}
	return &InstrumentedSource{
		source:   source,
		name:     name,
		requests: requests,
		errors:   errs,
		latency:  latency,
	}, nil
}

func (s *InstrumentedSource) record(ctx context.Context, op string, start time.Time, err error) {
	attrs := metric.WithAttributes(
		attribute.String("source", s.name),
		attribute.String("operation", op),
	)
	s.requests.Add(ctx, 1, attrs)
	if err != nil {
		s.errors.Add(ctx, 1, attrs)
	}
	s.latency.Record(ctx, float64(time.Since(start).Microseconds())/1000, attrs)
}

// Latest implements RatesSource.
func (s *InstrumentedSource) Latest(ctx context.Context) (snap rates.Snapshot, err error) {
	defer func(start time.Time) { s.record(ctx, "latest", start, err) }(time.Now())
	return s.source.Latest(ctx)
}

// LatestForBase implements RatesSource.
func (s *InstrumentedSource) LatestForBase(ctx context.Context, base string) (snap rates.Snapshot, err error) {
	defer func(start time.Time) { s.record(ctx, "latest_for_base", start, err) }(time.Now())
	return s.source.LatestForBase(ctx, base)
}

// LatestForSymbols implements RatesSource.
func (s *InstrumentedSource) LatestForSymbols(ctx context.Context, symbols []string) (snaps []rates.Snapshot, err error) {
	defer func(start time.Time) { s.record(ctx, "latest_for_symbols", start, err) }(time.Now())
	return s.source.LatestForSymbols(ctx, symbols)
}

// Historical implements RatesSource.
func (s *InstrumentedSource) Historical(ctx context.Context, date time.Time) (snap rates.Snapshot, err error) {
	defer func(start time.Time) { s.record(ctx, "historical", start, err) }(time.Now())
	return s.source.Historical(ctx, date)
}

// HistoricalRange implements RatesSource.
func (s *InstrumentedSource) HistoricalRange(ctx context.Context, start, end time.Time) (snaps []rates.Snapshot, err error) {
	defer func(t time.Time) { s.record(ctx, "historical_range", t, err) }(time.Now())
	return s.source.HistoricalRange(ctx, start, end)
}

// HistoricalRangeForSymbols implements RatesSource.
func (s *InstrumentedSource) HistoricalRangeForSymbols(ctx context.Context, start, end time.Time, symbols []string) (snaps []rates.Snapshot, err error) {
	defer func(t time.Time) { s.record(ctx, "historical_range_for_symbols", t, err) }(time.Now())
	return s.source.HistoricalRangeForSymbols(ctx, start, end, symbols)
}

// HistoricalRangeForBase implements RatesSource.
func (s *InstrumentedSource) HistoricalRangeForBase(ctx context.Context, start, end time.Time, base string) (snaps []rates.Snapshot, err error) {
	defer func(t time.Time) { s.record(ctx, "historical_range_for_base", t, err) }(time.Now())
	return s.source.HistoricalRangeForBase(ctx, start, end, base)
}
