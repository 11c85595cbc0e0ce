package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Pipeline.BatchSize != 15 {
		t.Errorf("expected default batch size 15, got %d", cfg.Pipeline.BatchSize)
	}
	if cfg.Pipeline.Period != "1D" {
		t.Errorf("expected default period 1D, got %s", cfg.Pipeline.Period)
	}
	if cfg.Names.GetTimeout() != time.Second {
		t.Errorf("expected name timeout 1s, got %s", cfg.Names.GetTimeout())
	}
	if cfg.Quotes.GetTimeout() != 2500*time.Millisecond {
		t.Errorf("expected quote timeout 2.5s, got %s", cfg.Quotes.GetTimeout())
	}
	if cfg.Cache.Dir == "" {
		t.Errorf("expected a default cache dir")
	}
	if cfg.Pipeline.GetRefreshInterval() != 0 {
		t.Errorf("expected live refresh disabled by default")
	}
}

func TestLoadFromFiles_NoFiles(t *testing.T) {
	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("LoadFromFiles with no files should not error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
}

func TestLoadFromFiles_ValidTOML(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "movers.toml")

	content := `
[pipeline]
period = "1Y"
batch_size = 5
batch_pause = "1s"

[cache]
dir = "/tmp/logos"
max_age = "24h"

[logging]
level = "debug"
format = "json"
`
	if err := os.WriteFile(tomlPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFiles(tomlPath)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}

	if cfg.Pipeline.Period != "1Y" {
		t.Errorf("expected period 1Y, got %s", cfg.Pipeline.Period)
	}
	if cfg.Pipeline.BatchSize != 5 {
		t.Errorf("expected batch size 5, got %d", cfg.Pipeline.BatchSize)
	}
	if cfg.Pipeline.GetBatchPause() != time.Second {
		t.Errorf("expected batch pause 1s, got %s", cfg.Pipeline.GetBatchPause())
	}
	if cfg.Cache.GetMaxAge() != 24*time.Hour {
		t.Errorf("expected max age 24h, got %s", cfg.Cache.GetMaxAge())
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected log format json, got %s", cfg.Logging.Format)
	}
	// untouched sections keep their defaults
	if cfg.Logos.Size != 64 {
		t.Errorf("expected default logo size 64, got %d", cfg.Logos.Size)
	}
	if cfg.Logos.MinSize != 16 {
		t.Errorf("expected default logo min size 16, got %d", cfg.Logos.MinSize)
	}
}

func TestLoadFromFiles_LaterFileWins(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.toml")
	b := filepath.Join(dir, "b.toml")
	os.WriteFile(a, []byte("[server]\nport = 1111\n"), 0644)
	os.WriteFile(b, []byte("[server]\nport = 2222\n"), 0644)

	cfg, err := LoadFromFiles(a, b)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}
	if cfg.Server.Port != 2222 {
		t.Errorf("expected port 2222, got %d", cfg.Server.Port)
	}
}

func TestLoadFromFiles_Invalid(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "bad.toml")
	os.WriteFile(p, []byte("[pipeline\nbatch_size = "), 0644)

	if _, err := LoadFromFiles(p); err == nil {
		t.Error("expected parse error")
	}
	if _, err := LoadFromFiles(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("expected read error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MOVERS_BATCH_SIZE", "7")
	t.Setenv("MOVERS_CACHE_DIR", "/var/cache/movers")
	t.Setenv("MOVERS_LOG_LEVEL", "warn")

	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Pipeline.BatchSize != 7 {
		t.Errorf("expected batch size 7, got %d", cfg.Pipeline.BatchSize)
	}
	if cfg.Cache.Dir != "/var/cache/movers" {
		t.Errorf("expected cache dir override, got %s", cfg.Cache.Dir)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level warn, got %s", cfg.Logging.Level)
	}
}

func TestMalformedDurationFallsBack(t *testing.T) {
	c := NamesConfig{Timeout: "soon"}
	if c.GetTimeout() != time.Second {
		t.Errorf("expected fallback to 1s, got %s", c.GetTimeout())
	}
}
