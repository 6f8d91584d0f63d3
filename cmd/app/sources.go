package main

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"fxrates/internal/config"
	"fxrates/internal/provider"
	"fxrates/internal/telemetry"
)

const meterName = "fxrates/provider"

// newRatesSource builds the source chain: each configured upstream is instrumented,
// then cached when cache is non-nil. Multiple upstreams are tried in order.
func newRatesSource(cfg *config.Config, cache provider.SnapshotCache, tp *telemetry.Provider, logger *zap.SugaredLogger) (provider.RatesSource, error) {
	latestTTL := time.Duration(cfg.Cache.LatestTTLSec) * time.Second
	historicalTTL := time.Duration(cfg.Cache.HistoricalTTLSec) * time.Second
	meter := tp.Meter(meterName)

	wrap := func(name string, src provider.RatesSource) (provider.RatesSource, error) {
		instrumented, err := provider.NewInstrumentedSource(src, meter, name)
		if err != nil {
			return nil, fmt.Errorf("instrument %s source: %w", name, err)
		}
		if cache == nil {
			return instrumented, nil
		}
		return provider.NewCachedSource(instrumented, cache, latestTTL, historicalTTL, name, logger), nil
	}

	var sources []provider.RatesSource

	if cfg.ExchangeRateHost.BaseURL != "" && cfg.ExchangeRateHost.APIKey != "" {
		p := provider.NewExchangeRateHostSource(cfg.ExchangeRateHost.BaseURL, cfg.ExchangeRateHost.APIKey,
			cfg.Rates.DefaultBase, cfg.ExchangeRateHost.Timeout)
		src, err := wrap("exchangerate_host", p)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}

	if cfg.Frankfurter.BaseURL != "" {
		p := provider.NewFrankfurterSource(cfg.Frankfurter.BaseURL, cfg.Frankfurter.Timeout)
		src, err := wrap("frankfurter", p)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no rate sources are correctly configured: " +
			"frankfurter requires base_url, exchangerate_host requires base_url and api_key")
	}

	logger.Infow("Rate sources configured", "count", len(sources), "cache", cfg.Cache.Backend)

	if len(sources) == 1 {
		return sources[0], nil
	}

	return provider.NewFallbackSource(sources...), nil
}
