package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"fxrates/internal/rates"
)

var _ RatesSource = (*CachedSource)(nil)

// CachedSource wraps a RatesSource with a snapshot cache. Latest data and historical
// data expire independently. Errors from the wrapped source are never cached.
type CachedSource struct {
	source        RatesSource
	cache         SnapshotCache
	latestTTL     time.Duration
	historicalTTL time.Duration
	name          string
	log           *zap.SugaredLogger
}

// NewCachedSource creates a new CachedSource. name namespaces the cache keys.
func NewCachedSource(source RatesSource, cache SnapshotCache, latestTTL, historicalTTL time.Duration, name string, logger *zap.SugaredLogger) *CachedSource {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &CachedSource{
		source:        source,
		cache:         cache,
		latestTTL:     latestTTL,
		historicalTTL: historicalTTL,
		name:          name,
		log:           logger,
	}
}

type refreshKey struct{}

// WithRefresh marks ctx so that every CachedSource it passes through skips the cache read,
// calls the wrapped source and overwrites the entry on success.
func WithRefresh(ctx context.Context) context.Context {
	return context.WithValue(ctx, refreshKey{}, true)
}

func refreshRequested(ctx context.Context) bool {
	v, _ := ctx.Value(refreshKey{}).(bool)
	return v
}

// historicalTTLFor returns the historical TTL only when the last requested day is already over.
// Requests reaching today or later expire like latest data.
func (c *CachedSource) historicalTTLFor(last time.Time) time.Duration {
	if rates.Day(last).Before(rates.Day(time.Now().UTC())) {
		return c.historicalTTL
	}
	return c.latestTTL
}

func (c *CachedSource) cacheKey(parts ...string) string {
	return fmt.Sprintf("source_cache:%s:{%s}", c.name, strings.Join(parts, ":"))
}

// Latest implements RatesSource.
func (c *CachedSource) Latest(ctx context.Context) (rates.Snapshot, error) {
	return cachedOne(ctx, c, c.cacheKey("latest"), c.latestTTL, func() (rates.Snapshot, error) {
		return c.source.Latest(ctx)
	})
}

// LatestForBase implements RatesSource.
func (c *CachedSource) LatestForBase(ctx context.Context, base string) (rates.Snapshot, error) {
	key := c.cacheKey("latest", "base", strings.ToUpper(base))
	return cachedOne(ctx, c, key, c.latestTTL, func() (rates.Snapshot, error) {
		return c.source.LatestForBase(ctx, base)
	})
}

// LatestForSymbols implements RatesSource.
func (c *CachedSource) LatestForSymbols(ctx context.Context, symbols []string) ([]rates.Snapshot, error) {
	key := c.cacheKey("latest", "symbols", symbolsKey(symbols))
	return cachedMany(ctx, c, key, c.latestTTL, func() ([]rates.Snapshot, error) {
		return c.source.LatestForSymbols(ctx, symbols)
	})
}

// Historical implements RatesSource.
func (c *CachedSource) Historical(ctx context.Context, date time.Time) (rates.Snapshot, error) {
	key := c.cacheKey("historical", rates.FormatDate(date))
	return cachedOne(ctx, c, key, c.historicalTTLFor(date), func() (rates.Snapshot, error) {
		return c.source.Historical(ctx, date)
	})
}

// HistoricalRange implements RatesSource.
func (c *CachedSource) HistoricalRange(ctx context.Context, start, end time.Time) ([]rates.Snapshot, error) {
	key := c.cacheKey("range", rangeKey(start, end))
	return cachedMany(ctx, c, key, c.historicalTTLFor(end), func() ([]rates.Snapshot, error) {
		return c.source.HistoricalRange(ctx, start, end)
	})
}

// HistoricalRangeForSymbols implements RatesSource.
func (c *CachedSource) HistoricalRangeForSymbols(ctx context.Context, start, end time.Time, symbols []string) ([]rates.Snapshot, error) {
	key := c.cacheKey("range", rangeKey(start, end), "symbols", symbolsKey(symbols))
	return cachedMany(ctx, c, key, c.historicalTTLFor(end), func() ([]rates.Snapshot, error) {
		return c.source.HistoricalRangeForSymbols(ctx, start, end, symbols)
	})
}

// HistoricalRangeForBase implements RatesSource.
func (c *CachedSource) HistoricalRangeForBase(ctx context.Context, start, end time.Time, base string) ([]rates.Snapshot, error) {
	key := c.cacheKey("range", rangeKey(start, end), "base", strings.ToUpper(base))
	return cachedMany(ctx, c, key, c.historicalTTLFor(end), func() ([]rates.Snapshot, error) {
		return c.source.HistoricalRangeForBase(ctx, start, end, base)
	})
}

func cachedOne(ctx context.Context, c *CachedSource, key string, ttl time.Duration, fetch func() (rates.Snapshot, error)) (rates.Snapshot, error) {
	if s, ok := lookup[rates.Snapshot](ctx, c, key); ok {
		return s, nil
	}
	s, err := fetch()
	if err != nil {
		return rates.Snapshot{}, err
	}
	store(ctx, c, key, s, ttl)
	return s, nil
}

func cachedMany(ctx context.Context, c *CachedSource, key string, ttl time.Duration, fetch func() ([]rates.Snapshot, error)) ([]rates.Snapshot, error) {
	if s, ok := lookup[[]rates.Snapshot](ctx, c, key); ok {
		return s, nil
	}
	s, err := fetch()
	if err != nil {
		return nil, err
	}
	store(ctx, c, key, s, ttl)
	return s, nil
}

// lookup reads and decodes a cached value; any cache failure counts as a miss.
func lookup[T any](ctx context.Context, c *CachedSource, key string) (T, bool) {
	var zero T
	if c.cache == nil || refreshRequested(ctx) {
		return zero, false
	}
	data, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.log.Warnw("Snapshot cache read failed", "key", key, "error", err)
		return zero, false
	}
	if !ok {
		return zero, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		c.log.Warnw("Discarding undecodable cache entry", "key", key, "error", err)
		return zero, false
	}
	return v, true
}

func store(ctx context.Context, c *CachedSource, key string, v any, ttl time.Duration) {
	if c.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		c.log.Warnw("Failed to encode snapshot for cache", "key", key, "error", err)
		return
	}
	if err := c.cache.Set(ctx, key, data, ttl); err != nil {
		c.log.Warnw("Failed to update snapshot cache", "key", key, "error", err)
	}
}

func rangeKey(start, end time.Time) string {
	return rates.FormatDate(start) + ".." + rates.FormatDate(end)
}

func symbolsKey(symbols []string) string {
	syms := normalizeSymbols(symbols)
	slices.Sort(syms)
	return strings.Join(syms, ",")
}
