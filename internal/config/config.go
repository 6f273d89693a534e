// File path: internal/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries the runtime settings for the matching backend. Values are
// resolved from an optional JSON file overlaid with environment variables;
// anything left unset falls back to defaults.
type Config struct {
	HTTPAddr    string `json:"http_addr"`
	CatalogPath string `json:"catalog_path"`

	RedisAddr     string        `json:"redis_addr"`
	RedisTTL      time.Duration `json:"-"`
	RedisTTLStr   string        `json:"redis_ttl"`
	CandidateCap  int           `json:"candidate_cap"`
	EmbedBatch    int           `json:"embed_batch"`
	EmbedDelay    time.Duration `json:"-"`
	EmbedDelayStr string        `json:"embed_delay"`

	RefreshInterval    time.Duration `json:"-"`
	RefreshIntervalStr string        `json:"refresh_interval"`
}

// Merge overlays non-zero fields from the override onto the receiver.
func (c Config) Merge(override Config) Config {
	result := c
	if strings.TrimSpace(override.HTTPAddr) != "" {
		result.HTTPAddr = strings.TrimSpace(override.HTTPAddr)
	}
	if strings.TrimSpace(override.CatalogPath) != "" {
		result.CatalogPath = strings.TrimSpace(override.CatalogPath)
	}
	if strings.TrimSpace(override.RedisAddr) != "" {
		result.RedisAddr = strings.TrimSpace(override.RedisAddr)
	}
	if override.RedisTTL > 0 {
		result.RedisTTL = override.RedisTTL
	}
	if override.CandidateCap > 0 {
		result.CandidateCap = override.CandidateCap
	}
	if override.EmbedBatch > 0 {
		result.EmbedBatch = override.EmbedBatch
	}
	if override.EmbedDelay > 0 {
		result.EmbedDelay = override.EmbedDelay
	}
	if override.RefreshInterval > 0 {
		result.RefreshInterval = override.RefreshInterval
	}
	return result
}

// LoadConfig resolves configuration from SKILLBRIDGE_CONFIG_FILE (when set)
// and the environment.
func LoadConfig() (Config, error) {
	cfg := Config{}
	if path := strings.TrimSpace(os.Getenv("SKILLBRIDGE_CONFIG_FILE")); path != "" {
		fileCfg, err := loadConfigFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg = cfg.Merge(fileCfg)
	}
	envCfg, err := loadConfigEnv()
	if err != nil {
		return Config{}, err
	}
	cfg = cfg.Merge(envCfg)
	cfg.applyDefaults()
	return cfg, nil
}

func loadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if err := cfg.parseDurations(); err != nil {
		return Config{}, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

func loadConfigEnv() (Config, error) {
	cfg := Config{
		HTTPAddr:           os.Getenv("SKILLBRIDGE_HTTP_ADDR"),
		CatalogPath:        os.Getenv("SKILLBRIDGE_CATALOG_PATH"),
		RedisAddr:          os.Getenv("SKILLBRIDGE_REDIS_ADDR"),
		RedisTTLStr:        os.Getenv("SKILLBRIDGE_REDIS_TTL"),
		EmbedDelayStr:      os.Getenv("SKILLBRIDGE_EMBED_DELAY"),
		RefreshIntervalStr: os.Getenv("SKILLBRIDGE_REFRESH_INTERVAL"),
	}
	if raw := strings.TrimSpace(os.Getenv("SKILLBRIDGE_CANDIDATE_CAP")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse SKILLBRIDGE_CANDIDATE_CAP: %w", err)
		}
		cfg.CandidateCap = parsed
	}
	if raw := strings.TrimSpace(os.Getenv("SKILLBRIDGE_EMBED_BATCH")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse SKILLBRIDGE_EMBED_BATCH: %w", err)
		}
		cfg.EmbedBatch = parsed
	}
	if err := cfg.parseDurations(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) parseDurations() error {
	if raw := strings.TrimSpace(c.RedisTTLStr); raw != "" {
		dur, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("parse redis ttl %q: %w", raw, err)
		}
		c.RedisTTL = dur
	}
	if raw := strings.TrimSpace(c.EmbedDelayStr); raw != "" {
		dur, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("parse embed delay %q: %w", raw, err)
		}
		c.EmbedDelay = dur
	}
	if raw := strings.TrimSpace(c.RefreshIntervalStr); raw != "" {
		dur, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("parse refresh interval %q: %w", raw, err)
		}
		c.RefreshInterval = dur
	}
	return nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.HTTPAddr) == "" {
		c.HTTPAddr = ":8082"
	}
	if strings.TrimSpace(c.CatalogPath) == "" {
		c.CatalogPath = "skillbridge.db"
	}
	if c.RedisTTL <= 0 {
		c.RedisTTL = 12 * time.Hour
	}
	if c.CandidateCap <= 0 {
		c.CandidateCap = 150
	}
	if c.EmbedBatch <= 0 {
		c.EmbedBatch = 5
	}
	if c.EmbedDelay <= 0 {
		c.EmbedDelay = time.Second
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = 30 * time.Minute
	}
}
