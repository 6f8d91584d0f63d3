package provider

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"fxrates/internal/rates"
)

var _ RatesSource = (*FrankfurterSource)(nil)

const frankfurterAPI = "frankfurter"

// FrankfurterSource fetches rates from the Frankfurter API. Its default base is EUR.
type FrankfurterSource struct {
	baseURL string
	client  *http.Client
}

// NewFrankfurterSource creates a new FrankfurterSource.
func NewFrankfurterSource(baseURL string, timeoutSec int) *FrankfurterSource {
	if baseURL == "" {
		baseURL = "https://api.frankfurter.dev/v1"
	}
	return &FrankfurterSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(timeoutSec),
	}
}

type frankfurterResponse struct {
	Amount float64            `json:"amount"`
	Base   string             `json:"base"`
	Date   string             `json:"date"`
	Rates  map[string]float64 `json:"rates"`
}

type frankfurterSeriesResponse struct {
	Amount    float64                       `json:"amount"`
	Base      string                        `json:"base"`
	StartDate string                        `json:"start_date"`
	EndDate   string                        `json:"end_date"`
	Rates     map[string]map[string]float64 `json:"rates"`
}

// Latest returns the latest EUR-based snapshot.
func (p *FrankfurterSource) Latest(ctx context.Context) (rates.Snapshot, error) {
	return p.single(ctx, "latest", "", nil)
}

// LatestForBase returns the latest snapshot for base.
func (p *FrankfurterSource) LatestForBase(ctx context.Context, base string) (rates.Snapshot, error) {
	return p.single(ctx, "latest", base, nil)
}

// LatestForSymbols returns the latest snapshot restricted to symbols, as a one-element sequence.
func (p *FrankfurterSource) LatestForSymbols(ctx context.Context, symbols []string) ([]rates.Snapshot, error) {
	s, err := p.single(ctx, "latest", "", symbols)
	if err != nil {
		return nil, err
	}
	return []rates.Snapshot{s}, nil
}

// Historical returns the snapshot published for date.
func (p *FrankfurterSource) Historical(ctx context.Context, date time.Time) (rates.Snapshot, error) {
	return p.single(ctx, rates.FormatDate(date), "", nil)
}

// HistoricalRange returns the time series between start and end.
func (p *FrankfurterSource) HistoricalRange(ctx context.Context, start, end time.Time) ([]rates.Snapshot, error) {
	return p.series(ctx, rangeQuery{start: start, end: end})
}

// HistoricalRangeForSymbols returns the time series restricted to symbols.
func (p *FrankfurterSource) HistoricalRangeForSymbols(ctx context.Context, start, end time.Time, symbols []string) ([]rates.Snapshot, error) {
	return p.series(ctx, rangeQuery{start: start, end: end, symbols: symbols})
}

// HistoricalRangeForBase returns the time series for base.
func (p *FrankfurterSource) HistoricalRangeForBase(ctx context.Context, start, end time.Time, base string) ([]rates.Snapshot, error) {
	return p.series(ctx, rangeQuery{start: start, end: end, base: base})
}

func (p *FrankfurterSource) single(ctx context.Context, path, base string, symbols []string) (rates.Snapshot, error) {
	var result frankfurterResponse
	if err := p.get(ctx, path, base, symbols, &result); err != nil {
		return rates.Snapshot{}, err
	}

	date, err := rates.ParseDate(result.Date)
	if err != nil {
		return rates.Snapshot{}, fmt.Errorf("invalid date %q in frankfurter response: %w", result.Date, err)
	}
	return rates.New(result.Base, date, result.Rates), nil
}

func (p *FrankfurterSource) series(ctx context.Context, q rangeQuery) ([]rates.Snapshot, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	path := rates.FormatDate(q.start) + ".." + rates.FormatDate(q.end)
	var result frankfurterSeriesResponse
	if err := p.get(ctx, path, q.base, q.symbols, &result); err != nil {
		return nil, err
	}

	// JSON object order is not guaranteed; YYYY-MM-DD sorts chronologically.
	days := slices.Sorted(maps.Keys(result.Rates))
	out := make([]rates.Snapshot, 0, len(days))
	for _, day := range days {
		date, err := rates.ParseDate(day)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q in frankfurter response: %w", day, err)
		}
		out = append(out, rates.New(result.Base, date, result.Rates[day]))
	}
	return out, nil
}

func (p *FrankfurterSource) get(ctx context.Context, path, base string, symbols []string, out any) error {
	query := url.Values{}
	if base != "" {
		query.Set("base", strings.ToUpper(base))
	}
	if syms := normalizeSymbols(symbols); len(syms) > 0 {
		query.Set("symbols", strings.Join(syms, ","))
	}

	reqURL := p.baseURL + "/" + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	err := getJSON(ctx, p.client, frankfurterAPI, reqURL, out)
	var se *statusError
	if errors.As(err, &se) {
		switch se.status {
		case http.StatusBadRequest, http.StatusNotFound, http.StatusUnprocessableEntity:
			// Frankfurter answers unknown currencies and out-of-range dates with 404/422.
			return fmt.Errorf("%w: %w", ErrInvalidArgument, se)
		}
	}
	return err
}
