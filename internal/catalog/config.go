// File path: internal/catalog/config.go
package catalog

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config controls the SQLite connection backing the catalog store.
type Config struct {
	Path            string
	BusyTimeout     time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// LoadConfig resolves catalog settings from the environment.
func LoadConfig() (Config, error) {
	cfg := Config{
		Path: strings.TrimSpace(os.Getenv("SKILLBRIDGE_CATALOG_PATH")),
	}
	if raw := strings.TrimSpace(os.Getenv("SKILLBRIDGE_CATALOG_BUSY_TIMEOUT")); raw != "" {
		dur, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse catalog busy timeout: %w", err)
		}
		cfg.BusyTimeout = dur
	}
	if raw := strings.TrimSpace(os.Getenv("SKILLBRIDGE_CATALOG_MAX_CONNS")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse catalog max conns: %w", err)
		}
		cfg.MaxOpenConns = parsed
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Path) == "" {
		c.Path = "skillbridge.db"
	}
	if c.BusyTimeout <= 0 {
		c.BusyTimeout = 5 * time.Second
	}
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = 8
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = 4
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = time.Hour
	}
	if c.ConnMaxIdleTime <= 0 {
		c.ConnMaxIdleTime = 15 * time.Minute
	}
}
