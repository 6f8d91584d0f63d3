// Package provider implements rate sources that fetch exchange rate snapshots from external APIs.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"fxrates/internal/rates"
)

// ErrInvalidArgument is wrapped by sources when the upstream rejects a base, symbol or date.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrInvalidRange indicates a date range whose end precedes its start.
var ErrInvalidRange = fmt.Errorf("%w: end date before start date", ErrInvalidArgument)

// RatesSource defines the operations for fetching exchange rate snapshots.
// Implementations must be safe for concurrent use.
type RatesSource interface {
	// Latest returns the latest snapshot in the source's default base.
	Latest(ctx context.Context) (rates.Snapshot, error)
	// LatestForBase returns the latest snapshot for an explicit base.
	LatestForBase(ctx context.Context, base string) (rates.Snapshot, error)
	// LatestForSymbols returns the latest snapshots restricted to symbols.
	LatestForSymbols(ctx context.Context, symbols []string) ([]rates.Snapshot, error)
	// Historical returns the snapshot for one date.
	Historical(ctx context.Context, date time.Time) (rates.Snapshot, error)
	// HistoricalRange returns snapshots covering [start, end] in chronological order.
	HistoricalRange(ctx context.Context, start, end time.Time) ([]rates.Snapshot, error)
	// HistoricalRangeForSymbols is HistoricalRange restricted to symbols.
	HistoricalRangeForSymbols(ctx context.Context, start, end time.Time, symbols []string) ([]rates.Snapshot, error)
	// HistoricalRangeForBase is HistoricalRange for an explicit base.
	HistoricalRangeForBase(ctx context.Context, start, end time.Time, base string) ([]rates.Snapshot, error)
}

// rangeQuery describes a time-series request. Empty fields are omitted upstream.
type rangeQuery struct {
	start   time.Time
	end     time.Time
	base    string
	symbols []string
}

func (q rangeQuery) validate() error {
	if rates.Day(q.end).Before(rates.Day(q.start)) {
		return fmt.Errorf("%w: %s..%s", ErrInvalidRange, rates.FormatDate(q.start), rates.FormatDate(q.end))
	}
	return nil
}

// normalizeSymbols upper-cases, trims and de-duplicates symbols, dropping empty entries.
func normalizeSymbols(symbols []string) []string {
	out := lo.FilterMap(symbols, func(s string, _ int) (string, bool) {
		s = strings.ToUpper(strings.TrimSpace(s))
		return s, s != ""
	})
	return lo.Uniq(out)
}
