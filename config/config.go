package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Pipeline PipelineConfig `toml:"pipeline"`
	Names    NamesConfig    `toml:"names"`
	Quotes   QuotesConfig   `toml:"quotes"`
	Logos    LogosConfig    `toml:"logos"`
	Cache    CacheConfig    `toml:"cache"`
	Sources  SourcesConfig  `toml:"sources"`
	Search   SearchConfig   `toml:"search"`
	Server   ServerConfig   `toml:"server"`
	Logging  LoggingConfig  `toml:"logging"`
}

// PipelineConfig controls discovery and batching.
type PipelineConfig struct {
	Period           string `toml:"period"`
	BatchSize        int    `toml:"batch_size"`
	BatchPause       string `toml:"batch_pause"`
	DiscoveryTimeout string `toml:"discovery_timeout"`
	MaxUniverse      int    `toml:"max_universe"`
	RefreshInterval  string `toml:"refresh_interval"` // empty disables live refresh
}

// NamesConfig controls the name resolver.
type NamesConfig struct {
	Timeout     string `toml:"timeout"`
	FinanceFeed bool   `toml:"finance_feed"` // adds the finance-go quote lookup to the race
}

// QuotesConfig controls the quote resolver.
type QuotesConfig struct {
	Timeout string  `toml:"timeout"`
	Haircut float64 `toml:"haircut"`
}

// LogosConfig controls the logo resolver.
type LogosConfig struct {
	Timeout string `toml:"timeout"`
	Size    int    `toml:"size"`
	MinSize int    `toml:"min_size"`
}

// CacheConfig controls the on-disk logo cache.
type CacheConfig struct {
	Dir      string `toml:"dir"`
	MaxAge   string `toml:"max_age"`
	MaxBytes int64  `toml:"max_bytes"`
}

// SourcesConfig points at optional override files for the built-in tables.
type SourcesConfig struct {
	File      string `toml:"file"`      // JSONC source catalogue overrides
	Listings  string `toml:"listings"`  // CSV: Symbol,Name,Exchange,Type,Domain
	Watchlist string `toml:"watchlist"` // CSV, first column is the symbol
	Prices    string `toml:"prices"`    // CSV: Symbol,Price,Change,MarketCap
}

// SearchConfig controls the symbol search index.
type SearchConfig struct {
	Path string `toml:"path"` // empty keeps the index in memory
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// LoadFromFiles loads configuration with priority:
// defaults -> file1 -> file2 -> ... -> env.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies MOVERS_* environment variable overrides.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("MOVERS_PERIOD"); v != "" {
		config.Pipeline.Period = v
	}
	if v := os.Getenv("MOVERS_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Pipeline.BatchSize = n
		}
	}
	if v := os.Getenv("MOVERS_REFRESH_INTERVAL"); v != "" {
		config.Pipeline.RefreshInterval = v
	}
	if v := os.Getenv("MOVERS_CACHE_DIR"); v != "" {
		config.Cache.Dir = v
	}
	if v := os.Getenv("MOVERS_SOURCES_FILE"); v != "" {
		config.Sources.File = v
	}
	if v := os.Getenv("MOVERS_SERVER_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			config.Server.Port = p
		}
	}
	if v := os.Getenv("MOVERS_SERVER_HOST"); v != "" {
		config.Server.Host = v
	}
	if v := os.Getenv("MOVERS_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("MOVERS_LOG_FORMAT"); v != "" {
		config.Logging.Format = v
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, period, logLevel string) {
	if period != "" {
		config.Pipeline.Period = period
	}
	if logLevel != "" {
		config.Logging.Level = logLevel
	}
}

// parseDuration returns def when s is empty or malformed.
func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return def
	}
	return d
}

func (c PipelineConfig) GetBatchPause() time.Duration {
	return parseDuration(c.BatchPause, 250*time.Millisecond)
}

func (c PipelineConfig) GetDiscoveryTimeout() time.Duration {
	return parseDuration(c.DiscoveryTimeout, 4*time.Second)
}

// GetRefreshInterval returns zero when live refresh is disabled.
func (c PipelineConfig) GetRefreshInterval() time.Duration {
	return parseDuration(c.RefreshInterval, 0)
}

func (c NamesConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, time.Second)
}

func (c QuotesConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 2500*time.Millisecond)
}

func (c LogosConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 3*time.Second)
}

// GetMaxAge returns zero when entries never expire.
func (c CacheConfig) GetMaxAge() time.Duration {
	return parseDuration(c.MaxAge, 0)
}

// Address returns the host:port the server listens on.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
