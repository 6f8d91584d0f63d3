// Package service implements rate lookups on top of a rates source.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"fxrates/internal/provider"
	"fxrates/internal/rates"
)

// RateLookup defines the lookup operations exposed to callers.
type RateLookup interface {
	RateInBaseCurrency(ctx context.Context, code string) (float64, bool, error)
	Rate(ctx context.Context, requested, exchanged string) (float64, bool, error)
	RateOnDate(ctx context.Context, date time.Time, code string) (float64, bool, error)
	RatesOverPeriod(ctx context.Context, start, end time.Time, code string) ([]rates.Point, error)
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error)
}

var _ RateLookup = (*LookupService)(nil)

// LookupService extracts single rates from snapshots fetched through a RatesSource.
// It holds no mutable state and is safe for concurrent use when the source is.
type LookupService struct {
	source provider.RatesSource
	log    *zap.SugaredLogger
}

// NewLookupService creates a new LookupService.
func NewLookupService(source provider.RatesSource, logger *zap.SugaredLogger) *LookupService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &LookupService{source: source, log: logger}
}

// RateInBaseCurrency returns the latest rate of code in the source's default base.
// A rejected request is reported as *CurrencyNotSupportedError.
func (s *LookupService) RateInBaseCurrency(ctx context.Context, code string) (float64, bool, error) {
	snap, err := s.source.Latest(ctx)
	if err != nil {
		return 0, false, s.notSupported(code, err)
	}
	v, ok := snap.Get(code)
	return v, ok, nil
}

// Rate returns how many units of requested one unit of exchanged buys, using the latest rates.
// Source errors are returned unchanged.
func (s *LookupService) Rate(ctx context.Context, requested, exchanged string) (float64, bool, error) {
	snap, err := s.source.LatestForBase(ctx, exchanged)
	if err != nil {
		return 0, false, err
	}
	v, ok := snap.Get(requested)
	return v, ok, nil
}

// RateOnDate returns the rate of code in the default base on date.
// A rejected request is reported as *CurrencyNotSupportedError.
func (s *LookupService) RateOnDate(ctx context.Context, date time.Time, code string) (float64, bool, error) {
	snap, err := s.source.Historical(ctx, date)
	if err != nil {
		return 0, false, s.notSupported(code, err)
	}
	v, ok := snap.Get(code)
	return v, ok, nil
}

// RatesOverPeriod returns one point per snapshot between start and end, in source order.
// Snapshots without code yield points with Found=false.
func (s *LookupService) RatesOverPeriod(ctx context.Context, start, end time.Time, code string) ([]rates.Point, error) {
	snaps, err := s.source.HistoricalRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return lo.Map(snaps, func(snap rates.Snapshot, _ int) rates.Point {
		return rates.PointOf(snap, code)
	}), nil
}

// Convert converts amount of from into to at the latest rate.
func (s *LookupService) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}
	rate, ok, err := s.Rate(ctx, to, from)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return decimal.Zero, ErrRateUnavailable
	}
	return amount.Mul(decimal.NewFromFloat(rate)), nil
}

// notSupported translates a rejected-input failure into *CurrencyNotSupportedError.
// Other failures are returned unchanged.
func (s *LookupService) notSupported(code string, err error) error {
	if !errors.Is(err, provider.ErrInvalidArgument) {
		return err
	}
	s.log.Debugw("Rates source rejected request", "code", code, "error", err)
	return &CurrencyNotSupportedError{Code: code, Err: err}
}
