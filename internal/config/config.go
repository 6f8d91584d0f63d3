// Package config provides application configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Cache backends.
const (
	CacheBackendRedis  = "redis"
	CacheBackendMemory = "memory"
	CacheBackendNone   = "none"
)

// Config holds the complete application configuration.
type Config struct {
	Server           ServerConfig
	Redis            RedisConfig
	ExchangeRateHost ExchangeRateHostConfig `mapstructure:"exchangerate_host"`
	Frankfurter      FrankfurterConfig      `mapstructure:"frankfurter"`
	Rates            RatesConfig
	Cache            CacheConfig
	Worker           WorkerConfig
	Telemetry        TelemetryConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port          int  `mapstructure:"port"`
	ServeSwagger  bool `mapstructure:"serve_swagger"`
	ServeAsynqmon bool `mapstructure:"serve_asynqmon"`
}

// RedisConfig holds connection settings for both Redis instances.
type RedisConfig struct {
	AsynqAddr string `mapstructure:"asynq_addr"` // Redis instance for the Asynq task queue.
	CacheAddr string `mapstructure:"cache_addr"` // Redis instance for the snapshot cache.
}

// ExchangeRateHostConfig holds settings for the exchangerate.host source.
type ExchangeRateHostConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Timeout int    `mapstructure:"timeout_sec"`
}

// FrankfurterConfig holds settings for the frankfurter source.
type FrankfurterConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout_sec"`
}

// RatesConfig holds lookup settings.
type RatesConfig struct {
	// DefaultBase is the base used by sources that let the caller choose it.
	DefaultBase string `mapstructure:"default_base"`
}

// CacheConfig holds snapshot caching settings.
type CacheConfig struct {
	Backend          string `mapstructure:"backend"`
	LatestTTLSec     int    `mapstructure:"latest_ttl_sec"`
	HistoricalTTLSec int    `mapstructure:"historical_ttl_sec"`
	MemorySizeMB     int    `mapstructure:"memory_size_mb"`
}

// WorkerConfig holds cache warming worker settings.
type WorkerConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	Concurrency      int      `mapstructure:"concurrency"`
	MaxRetry         int      `mapstructure:"max_retry"`
	TimeoutSec       int      `mapstructure:"timeout_sec"`
	CheckIntervalSec int      `mapstructure:"check_interval_sec"`
	WarmCron         string   `mapstructure:"warm_cron"`
	WarmBases        []string `mapstructure:"warm_bases"`
}

// TelemetryConfig holds OpenTelemetry metrics settings.
type TelemetryConfig struct {
	OTLPEndpoint      string `mapstructure:"otlp_endpoint"` // host:port; empty disables export.
	Insecure          bool   `mapstructure:"insecure"`
	ServiceName       string `mapstructure:"service_name"`
	ExportIntervalSec int    `mapstructure:"export_interval_sec"`
}

// LoadConfig reads configuration from config files, environment variables, and defaults.
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Printf("No .env file found or error loading it: %v\n", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		// It's okay if no config file, we have defaults and env
		fmt.Printf("Config file not found: %v\n", err)
	}

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("FXRATES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.serve_swagger", true)
	v.SetDefault("server.serve_asynqmon", false)
	v.SetDefault("redis.asynq_addr", "redis_asynq:6380")
	v.SetDefault("redis.cache_addr", "redis_cache:6381")
	v.SetDefault("exchangerate_host.base_url", "https://api.exchangerate.host")
	v.SetDefault("exchangerate_host.api_key", "")
	v.SetDefault("exchangerate_host.timeout_sec", 5)
	v.SetDefault("frankfurter.base_url", "https://api.frankfurter.dev/v1")
	v.SetDefault("frankfurter.timeout_sec", 5)
	v.SetDefault("rates.default_base", "EUR")
	v.SetDefault("cache.backend", CacheBackendRedis)
	v.SetDefault("cache.latest_ttl_sec", 300)
	v.SetDefault("cache.historical_ttl_sec", 86400)
	v.SetDefault("cache.memory_size_mb", 32)
	v.SetDefault("worker.enabled", false)
	v.SetDefault("worker.concurrency", 1)
	v.SetDefault("worker.max_retry", 3)
	v.SetDefault("worker.timeout_sec", 30)
	v.SetDefault("worker.check_interval_sec", 5)
	v.SetDefault("worker.warm_cron", "@every 5m")
	v.SetDefault("worker.warm_bases", []string{"EUR"})
	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.insecure", true)
	v.SetDefault("telemetry.service_name", "fxrates")
	v.SetDefault("telemetry.export_interval_sec", 30)
}

func (c *Config) normalize() {
	c.Rates.DefaultBase = strings.ToUpper(strings.TrimSpace(c.Rates.DefaultBase))
	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	bases := make([]string, 0, len(c.Worker.WarmBases))
	for _, b := range c.Worker.WarmBases {
		if b = strings.ToUpper(strings.TrimSpace(b)); b != "" && !slices.Contains(bases, b) {
			bases = append(bases, b)
		}
	}
	c.Worker.WarmBases = bases
}

// UsesRedisCache reports whether the snapshot cache lives in Redis.
func (c *Config) UsesRedisCache() bool {
	return c.Cache.Backend == CacheBackendRedis
}

// Validate checks that all required configuration fields are set and valid.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be positive, got %d", c.Server.Port))
	}

	if c.Frankfurter.BaseURL == "" && (c.ExchangeRateHost.BaseURL == "" || c.ExchangeRateHost.APIKey == "") {
		errs = append(errs, errors.New("no rate source configured: frankfurter requires base_url, "+
			"exchangerate_host requires base_url and api_key"))
	}
	if c.Frankfurter.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("frankfurter.timeout_sec must be positive, got %d", c.Frankfurter.Timeout))
	}
	if c.ExchangeRateHost.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("exchangerate_host.timeout_sec must be positive, got %d", c.ExchangeRateHost.Timeout))
	}
	if len(c.Rates.DefaultBase) != 3 {
		errs = append(errs, fmt.Errorf("rates.default_base must be a 3-letter code, got %q", c.Rates.DefaultBase))
	}

	switch c.Cache.Backend {
	case CacheBackendRedis:
		if c.Redis.CacheAddr == "" {
			errs = append(errs, errors.New("redis.cache_addr is required for the redis cache backend (set FXRATES_REDIS_CACHE_ADDR)"))
		}
	case CacheBackendMemory:
		if c.Cache.MemorySizeMB <= 0 {
			errs = append(errs, fmt.Errorf("cache.memory_size_mb must be positive, got %d", c.Cache.MemorySizeMB))
		}
	case CacheBackendNone:
	default:
		errs = append(errs, fmt.Errorf("cache.backend must be one of redis, memory, none; got %q", c.Cache.Backend))
	}
	if c.Cache.Backend != CacheBackendNone {
		if c.Cache.LatestTTLSec <= 0 {
			errs = append(errs, fmt.Errorf("cache.latest_ttl_sec must be positive, got %d", c.Cache.LatestTTLSec))
		}
		if c.Cache.HistoricalTTLSec <= 0 {
			errs = append(errs, fmt.Errorf("cache.historical_ttl_sec must be positive, got %d", c.Cache.HistoricalTTLSec))
		}
	}

	if c.Worker.Enabled {
		if c.Redis.AsynqAddr == "" {
			errs = append(errs, errors.New("redis.asynq_addr is required when the worker is enabled (set FXRATES_REDIS_ASYNQ_ADDR)"))
		}
		if c.Worker.Concurrency <= 0 {
			errs = append(errs, fmt.Errorf("worker.concurrency must be positive, got %d", c.Worker.Concurrency))
		}
		if c.Worker.MaxRetry < 0 {
			errs = append(errs, fmt.Errorf("worker.max_retry must be non-negative, got %d", c.Worker.MaxRetry))
		}
		if c.Worker.TimeoutSec <= 0 {
			errs = append(errs, fmt.Errorf("worker.timeout_sec must be positive, got %d", c.Worker.TimeoutSec))
		}
		if c.Worker.CheckIntervalSec <= 0 {
			errs = append(errs, fmt.Errorf("worker.check_interval_sec must be positive, got %d", c.Worker.CheckIntervalSec))
		}
		if c.Worker.WarmCron == "" {
			errs = append(errs, errors.New("worker.warm_cron is required when the worker is enabled"))
		}
		if len(c.Worker.WarmBases) == 0 {
			errs = append(errs, errors.New("worker.warm_bases must list at least one currency"))
		}
	}

	if c.Telemetry.OTLPEndpoint != "" && c.Telemetry.ExportIntervalSec <= 0 {
		errs = append(errs, fmt.Errorf("telemetry.export_interval_sec must be positive, got %d", c.Telemetry.ExportIntervalSec))
	}

	return errors.Join(errs...)
}
