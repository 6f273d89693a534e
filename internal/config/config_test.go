// File path: internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"SKILLBRIDGE_CONFIG_FILE", "SKILLBRIDGE_HTTP_ADDR", "SKILLBRIDGE_CATALOG_PATH",
		"SKILLBRIDGE_REDIS_ADDR", "SKILLBRIDGE_REDIS_TTL", "SKILLBRIDGE_CANDIDATE_CAP",
		"SKILLBRIDGE_EMBED_BATCH", "SKILLBRIDGE_EMBED_DELAY", "SKILLBRIDGE_REFRESH_INTERVAL",
	} {
		t.Setenv(key, "")
	}
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8082" {
		t.Fatalf("unexpected addr: %q", cfg.HTTPAddr)
	}
	if cfg.CatalogPath != "skillbridge.db" {
		t.Fatalf("unexpected catalog path: %q", cfg.CatalogPath)
	}
	if cfg.CandidateCap != 150 || cfg.EmbedBatch != 5 {
		t.Fatalf("unexpected caps: %+v", cfg)
	}
	if cfg.RedisTTL != 12*time.Hour || cfg.EmbedDelay != time.Second || cfg.RefreshInterval != 30*time.Minute {
		t.Fatalf("unexpected durations: %+v", cfg)
	}
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("SKILLBRIDGE_CONFIG_FILE", "")
	t.Setenv("SKILLBRIDGE_HTTP_ADDR", ":9000")
	t.Setenv("SKILLBRIDGE_CANDIDATE_CAP", "25")
	t.Setenv("SKILLBRIDGE_REDIS_TTL", "1h")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":9000" || cfg.CandidateCap != 25 || cfg.RedisTTL != time.Hour {
		t.Fatalf("environment not applied: %+v", cfg)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"http_addr": ":7000", "catalog_path": "file.db", "refresh_interval": "5m"}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("SKILLBRIDGE_CONFIG_FILE", path)
	t.Setenv("SKILLBRIDGE_HTTP_ADDR", ":7100")
	t.Setenv("SKILLBRIDGE_CATALOG_PATH", "")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":7100" {
		t.Fatalf("expected env to win, got %q", cfg.HTTPAddr)
	}
	if cfg.CatalogPath != "file.db" {
		t.Fatalf("expected file value kept, got %q", cfg.CatalogPath)
	}
	if cfg.RefreshInterval != 5*time.Minute {
		t.Fatalf("expected file duration parsed, got %s", cfg.RefreshInterval)
	}
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	t.Setenv("SKILLBRIDGE_CONFIG_FILE", "")
	t.Setenv("SKILLBRIDGE_REDIS_TTL", "soon")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestMergeSkipsZeroValues(t *testing.T) {
	base := Config{HTTPAddr: ":1", CandidateCap: 10, RedisTTL: time.Hour}
	merged := base.Merge(Config{CandidateCap: 20})
	if merged.HTTPAddr != ":1" || merged.CandidateCap != 20 || merged.RedisTTL != time.Hour {
		t.Fatalf("unexpected merge result: %+v", merged)
	}
}
