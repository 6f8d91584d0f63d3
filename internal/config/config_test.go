package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "EUR", cfg.Rates.DefaultBase)
	assert.Equal(t, CacheBackendRedis, cfg.Cache.Backend)
	assert.True(t, cfg.UsesRedisCache())
	assert.Equal(t, 300, cfg.Cache.LatestTTLSec)
	assert.Equal(t, 86400, cfg.Cache.HistoricalTTLSec)
	assert.Equal(t, "https://api.frankfurter.dev/v1", cfg.Frankfurter.BaseURL)
	assert.False(t, cfg.Worker.Enabled)
	assert.Equal(t, []string{"EUR"}, cfg.Worker.WarmBases)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FXRATES_SERVER_PORT", "9090")
	t.Setenv("FXRATES_CACHE_BACKEND", "Memory")
	t.Setenv("FXRATES_RATES_DEFAULT_BASE", "usd")
	t.Setenv("FXRATES_WORKER_ENABLED", "true")
	t.Setenv("FXRATES_WORKER_WARM_BASES", "eur,usd,EUR")

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, CacheBackendMemory, cfg.Cache.Backend)
	assert.False(t, cfg.UsesRedisCache())
	assert.Equal(t, "USD", cfg.Rates.DefaultBase)
	assert.True(t, cfg.Worker.Enabled)
	assert.Equal(t, []string{"EUR", "USD"}, cfg.Worker.WarmBases)
}

func TestLoad_InvalidBackend(t *testing.T) {
	t.Setenv("FXRATES_CACHE_BACKEND", "memcached")

	_, err := load(viper.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache.backend")
}

func validConfig() Config {
	return Config{
		Server:      ServerConfig{Port: 8080},
		Redis:       RedisConfig{CacheAddr: "localhost:6379", AsynqAddr: "localhost:6380"},
		Frankfurter: FrankfurterConfig{BaseURL: "https://api.frankfurter.dev/v1", Timeout: 5},
		ExchangeRateHost: ExchangeRateHostConfig{
			BaseURL: "https://api.exchangerate.host",
			Timeout: 5,
		},
		Rates: RatesConfig{DefaultBase: "EUR"},
		Cache: CacheConfig{Backend: CacheBackendRedis, LatestTTLSec: 60, HistoricalTTLSec: 3600},
		Worker: WorkerConfig{
			Concurrency:      1,
			TimeoutSec:       30,
			CheckIntervalSec: 5,
			WarmCron:         "@every 5m",
			WarmBases:        []string{"EUR"},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"no source", func(c *Config) { c.Frankfurter.BaseURL = "" }, "no rate source configured"},
		{"exchangerate host alone", func(c *Config) {
			c.Frankfurter.BaseURL = ""
			c.ExchangeRateHost.APIKey = "key"
		}, ""},
		{"bad default base", func(c *Config) { c.Rates.DefaultBase = "EURO" }, "rates.default_base"},
		{"redis backend without addr", func(c *Config) { c.Redis.CacheAddr = "" }, "redis.cache_addr"},
		{"memory backend without size", func(c *Config) {
			c.Cache.Backend = CacheBackendMemory
			c.Redis.CacheAddr = ""
		}, "cache.memory_size_mb"},
		{"no cache skips ttl checks", func(c *Config) {
			c.Cache = CacheConfig{Backend: CacheBackendNone}
		}, ""},
		{"worker without asynq", func(c *Config) {
			c.Worker.Enabled = true
			c.Redis.AsynqAddr = ""
		}, "redis.asynq_addr"},
		{"worker without bases", func(c *Config) {
			c.Worker.Enabled = true
			c.Worker.WarmBases = nil
		}, "worker.warm_bases"},
		{"disabled worker is not checked", func(c *Config) {
			c.Worker = WorkerConfig{}
		}, ""},
		{"telemetry interval", func(c *Config) {
			c.Telemetry.OTLPEndpoint = "collector:4318"
		}, "telemetry.export_interval_sec"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidate_JoinsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = -1
	cfg.Rates.DefaultBase = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "rates.default_base")
}
