package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"

	"fxrates/internal/rates"
)

var _ RatesSource = (*FallbackSource)(nil)

// FallbackSource calls sources sequentially until one succeeds. When all of them fail,
// the error matches ErrInvalidArgument only if every source rejected the input; a mix of
// rejections and other failures is reported as an upstream failure.
type FallbackSource struct {
	sources []RatesSource
}

// NewFallbackSource creates a new FallbackSource over the given sources, tried in order.
func NewFallbackSource(sources ...RatesSource) *FallbackSource {
	return &FallbackSource{sources: sources}
}

// rejectionError carries the message of a rejection without matching ErrInvalidArgument.
type rejectionError struct{ msg string }

func (e *rejectionError) Error() string { return e.msg }

// firstSuccess returns the first successful result. When every source fails the
// individual errors are joined.
func firstSuccess[T any](ctx context.Context, sources []RatesSource, call func(RatesSource) (T, error)) (T, error) {
	var zero T
	errs := make([]error, 0, len(sources))
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		v, err := call(src)
		if err == nil {
			return v, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return zero, errors.New("no rate sources configured")
	}
	if !lo.EveryBy(errs, isRejection) {
		errs = lo.Map(errs, func(err error, _ int) error {
			if isRejection(err) {
				return &rejectionError{msg: err.Error()}
			}
			return err
		})
	}
	return zero, fmt.Errorf("all sources failed: %w", errors.Join(errs...))
}

func isRejection(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// Latest implements RatesSource.
func (f *FallbackSource) Latest(ctx context.Context) (rates.Snapshot, error) {
	return firstSuccess(ctx, f.sources, func(s RatesSource) (rates.Snapshot, error) {
		return s.Latest(ctx)
	})
}

// LatestForBase implements RatesSource.
func (f *FallbackSource) LatestForBase(ctx context.Context, base string) (rates.Snapshot, error) {
	return firstSuccess(ctx, f.sources, func(s RatesSource) (rates.Snapshot, error) {
		return s.LatestForBase(ctx, base)
	})
}

// LatestForSymbols implements RatesSource.
func (f *FallbackSource) LatestForSymbols(ctx context.Context, symbols []string) ([]rates.Snapshot, error) {
	return firstSuccess(ctx, f.sources, func(s RatesSource) ([]rates.Snapshot, error) {
		return s.LatestForSymbols(ctx, symbols)
	})
}

// Historical implements RatesSource.
func (f *FallbackSource) Historical(ctx context.Context, date time.Time) (rates.Snapshot, error) {
	return firstSuccess(ctx, f.sources, func(s RatesSource) (rates.Snapshot, error) {
		return s.Historical(ctx, date)
	})
}

// HistoricalRange implements RatesSource.
func (f *FallbackSource) HistoricalRange(ctx context.Context, start, end time.Time) ([]rates.Snapshot, error) {
	return firstSuccess(ctx, f.sources, func(s RatesSource) ([]rates.Snapshot, error) {
		return s.HistoricalRange(ctx, start, end)
	})
}

// HistoricalRangeForSymbols implements RatesSource.
func (f *FallbackSource) HistoricalRangeForSymbols(ctx context.Context, start, end time.Time, symbols []string) ([]rates.Snapshot, error) {
	return firstSuccess(ctx, f.sources, func(s RatesSource) ([]rates.Snapshot, error) {
		return s.HistoricalRangeForSymbols(ctx, start, end, symbols)
	})
}

// HistoricalRangeForBase implements RatesSource.
func (f *FallbackSource) HistoricalRangeForBase(ctx context.Context, start, end time.Time, base string) ([]rates.Snapshot, error) {
	return firstSuccess(ctx, f.sources, func(s RatesSource) ([]rates.Snapshot, error) {
		return s.HistoricalRangeForBase(ctx, start, end, base)
	})
}
