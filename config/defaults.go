package config

import (
	"os"
	"path/filepath"
)

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			Period:           "1D",
			BatchSize:        15,
			BatchPause:       "250ms",
			DiscoveryTimeout: "4s",
			MaxUniverse:      50,
		},
		Names: NamesConfig{
			Timeout: "1s",
		},
		Quotes: QuotesConfig{
			Timeout: "2500ms",
			Haircut: 0.125,
		},
		Logos: LogosConfig{
			Timeout: "3s",
			Size:    64,
			MinSize: 16,
		},
		Cache: CacheConfig{
			Dir:      defaultCacheDir(),
			MaxAge:   "720h",
			MaxBytes: 64 << 20,
		},
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(".", ".cache", "logos")
	}
	return filepath.Join(base, "stock-movers", "logos")
}
