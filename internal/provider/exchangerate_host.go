package provider

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"fxrates/internal/rates"
)

var _ RatesSource = (*ExchangeRateHostSource)(nil)

const erHostAPI = "exchangerate.host"

// Error codes that exchangerate.host uses for rejected input.
var erHostInvalidInputCodes = map[int]struct{}{
	106: {}, // no results for the query
	201: {}, // invalid source currency
	202: {}, // invalid currency codes
	301: {}, // no date specified
	302: {}, // invalid date
	501: {}, // invalid timeframe
	502: {}, // invalid start date
	503: {}, // invalid end date
	504: {}, // invalid timeframe
	505: {}, // timeframe too long
}

// ExchangeRateHostSource fetches rates from the exchangerate.host API.
type ExchangeRateHostSource struct {
	baseURL     string
	apiKey      string
	defaultBase string
	client      *http.Client
}

// NewExchangeRateHostSource creates a new ExchangeRateHostSource. defaultBase is the
// source currency used when a request does not name one.
func NewExchangeRateHostSource(baseURL, apiKey, defaultBase string, timeoutSec int) *ExchangeRateHostSource {
	if baseURL == "" {
		baseURL = "https://api.exchangerate.host"
	}
	if defaultBase == "" {
		defaultBase = "EUR"
	}
	return &ExchangeRateHostSource{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		defaultBase: strings.ToUpper(defaultBase),
		client:      newHTTPClient(timeoutSec),
	}
}

type erHostError struct {
	Code int    `json:"code"`
	Type string `json:"type"`
	Info string `json:"info"`
}

// erHostResponse covers the live and historical endpoints.
type erHostResponse struct {
	Success   bool               `json:"success"`
	Timestamp int64              `json:"timestamp"`
	Date      string             `json:"date"`
	Source    string             `json:"source"`
	Quotes    map[string]float64 `json:"quotes"`
	Error     *erHostError       `json:"error"`
}

type erHostTimeframeResponse struct {
	Success   bool                          `json:"success"`
	StartDate string                        `json:"start_date"`
	EndDate   string                        `json:"end_date"`
	Source    string                        `json:"source"`
	Quotes    map[string]map[string]float64 `json:"quotes"`
	Error     *erHostError                  `json:"error"`
}

// Latest returns the latest snapshot in the configured default base.
func (p *ExchangeRateHostSource) Latest(ctx context.Context) (rates.Snapshot, error) {
	return p.live(ctx, p.defaultBase, nil)
}

// LatestForBase returns the latest snapshot for base.
func (p *ExchangeRateHostSource) LatestForBase(ctx context.Context, base string) (rates.Snapshot, error) {
	return p.live(ctx, base, nil)
}

// LatestForSymbols returns the latest snapshot restricted to symbols, as a one-element sequence.
func (p *ExchangeRateHostSource) LatestForSymbols(ctx context.Context, symbols []string) ([]rates.Snapshot, error) {
	s, err := p.live(ctx, p.defaultBase, symbols)
	if err != nil {
		return nil, err
	}
	return []rates.Snapshot{s}, nil
}

// Historical returns the snapshot for date in the default base.
func (p *ExchangeRateHostSource) Historical(ctx context.Context, date time.Time) (rates.Snapshot, error) {
	query := p.query(p.defaultBase, nil)
	query.Set("date", rates.FormatDate(date))

	var result erHostResponse
	if err := p.get(ctx, "historical", query, &result); err != nil {
		return rates.Snapshot{}, err
	}
	if err := result.Error.check(result.Success); err != nil {
		return rates.Snapshot{}, err
	}

	day, err := rates.ParseDate(result.Date)
	if err != nil {
		return rates.Snapshot{}, fmt.Errorf("invalid date %q in %s response: %w", result.Date, erHostAPI, err)
	}
	source := sourceOr(result.Source, p.defaultBase)
	return rates.New(source, day, stripSource(source, result.Quotes)), nil
}

// HistoricalRange returns the timeframe between start and end.
func (p *ExchangeRateHostSource) HistoricalRange(ctx context.Context, start, end time.Time) ([]rates.Snapshot, error) {
	return p.timeframe(ctx, rangeQuery{start: start, end: end})
}

// HistoricalRangeForSymbols returns the timeframe restricted to symbols.
func (p *ExchangeRateHostSource) HistoricalRangeForSymbols(ctx context.Context, start, end time.Time, symbols []string) ([]rates.Snapshot, error) {
	return p.timeframe(ctx, rangeQuery{start: start, end: end, symbols: symbols})
}

// HistoricalRangeForBase returns the timeframe for base.
func (p *ExchangeRateHostSource) HistoricalRangeForBase(ctx context.Context, start, end time.Time, base string) ([]rates.Snapshot, error) {
	return p.timeframe(ctx, rangeQuery{start: start, end: end, base: base})
}

func (p *ExchangeRateHostSource) live(ctx context.Context, base string, symbols []string) (rates.Snapshot, error) {
	var result erHostResponse
	if err := p.get(ctx, "live", p.query(base, symbols), &result); err != nil {
		return rates.Snapshot{}, err
	}
	if err := result.Error.check(result.Success); err != nil {
		return rates.Snapshot{}, err
	}

	ts := time.Now().UTC()
	if result.Timestamp > 0 {
		ts = time.Unix(result.Timestamp, 0).UTC()
	}
	source := sourceOr(result.Source, base)
	return rates.New(source, ts, stripSource(source, result.Quotes)), nil
}

func (p *ExchangeRateHostSource) timeframe(ctx context.Context, q rangeQuery) ([]rates.Snapshot, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	base := q.base
	if base == "" {
		base = p.defaultBase
	}

	query := p.query(base, q.symbols)
	query.Set("start_date", rates.FormatDate(q.start))
	query.Set("end_date", rates.FormatDate(q.end))

	var result erHostTimeframeResponse
	if err := p.get(ctx, "timeframe", query, &result); err != nil {
		return nil, err
	}
	if err := result.Error.check(result.Success); err != nil {
		return nil, err
	}

	source := sourceOr(result.Source, base)
	days := slices.Sorted(maps.Keys(result.Quotes))
	out := make([]rates.Snapshot, 0, len(days))
	for _, day := range days {
		date, err := rates.ParseDate(day)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q in %s response: %w", day, erHostAPI, err)
		}
		out = append(out, rates.New(source, date, stripSource(source, result.Quotes[day])))
	}
	return out, nil
}

func (p *ExchangeRateHostSource) query(base string, symbols []string) url.Values {
	query := url.Values{}
	query.Set("access_key", p.apiKey)
	query.Set("source", strings.ToUpper(base))
	if syms := normalizeSymbols(symbols); len(syms) > 0 {
		query.Set("currencies", strings.Join(syms, ","))
	}
	return query
}

func (p *ExchangeRateHostSource) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	return getJSON(ctx, p.client, erHostAPI, p.baseURL+"/"+endpoint+"?"+query.Encode(), out)
}

// check converts a success=false payload into an error.
func (e *erHostError) check(success bool) error {
	if success {
		return nil
	}
	if e == nil {
		return fmt.Errorf("%s API returned success=false", erHostAPI)
	}
	err := fmt.Errorf("%s API error %d (%s): %s", erHostAPI, e.Code, e.Type, e.Info)
	if _, ok := erHostInvalidInputCodes[e.Code]; ok {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return err
}

// sourceOr returns the payload's source currency, or the requested base when the payload omits it.
func sourceOr(source, requested string) string {
	if source != "" {
		return strings.ToUpper(source)
	}
	return strings.ToUpper(requested)
}

// stripSource turns quotes keyed as "EURUSD" into rates keyed as "USD".
func stripSource(source string, quotes map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(quotes))
	for key, v := range quotes {
		out[strings.TrimPrefix(key, source)] = v
	}
	return out
}
