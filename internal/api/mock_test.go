package api

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"fxrates/internal/rates"
)

// mockLookup implements service.RateLookup for testing.
type mockLookup struct {
	rateInBaseFunc func(ctx context.Context, code string) (float64, bool, error)
	rateFunc       func(ctx context.Context, requested, exchanged string) (float64, bool, error)
	rateOnDateFunc func(ctx context.Context, date time.Time, code string) (float64, bool, error)
	periodFunc     func(ctx context.Context, start, end time.Time, code string) ([]rates.Point, error)
	convertFunc    func(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error)
}

func (m *mockLookup) RateInBaseCurrency(ctx context.Context, code string) (float64, bool, error) {
	return m.rateInBaseFunc(ctx, code)
}

func (m *mockLookup) Rate(ctx context.Context, requested, exchanged string) (float64, bool, error) {
	return m.rateFunc(ctx, requested, exchanged)
}

func (m *mockLookup) RateOnDate(ctx context.Context, date time.Time, code string) (float64, bool, error) {
	return m.rateOnDateFunc(ctx, date, code)
}

func (m *mockLookup) RatesOverPeriod(ctx context.Context, start, end time.Time, code string) ([]rates.Point, error) {
	return m.periodFunc(ctx, start, end, code)
}

func (m *mockLookup) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	return m.convertFunc(ctx, amount, from, to)
}
