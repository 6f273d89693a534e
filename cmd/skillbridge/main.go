// File path: cmd/skillbridge/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/api"
	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/catalog"
	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/common"
	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/config"
	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/embed"
	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/llm"
	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/match"
	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/refresh"
)

func main() {
	logger := common.Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil {
		logger.Warn("skillbridge: .env file not loaded", "error", err)
	} else {
		logger.Info("skillbridge: environment loaded from .env")
	}

	addr := flag.String("addr", "", "listen address")
	catalogPath := flag.String("catalog", "", "path to the SQLite catalog database")
	redisAddr := flag.String("redis", "", "redis address for the hot embedding cache (empty disables)")
	candidateCap := flag.Int("candidate-cap", 0, "maximum candidates retrieved per match request")
	refreshInterval := flag.String("refresh-interval", "", "interval between profile embedding refresh cycles (e.g. 15m)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("skillbridge: config load failed", "error", err)
		fmt.Println("config error:", err)
		os.Exit(1)
	}
	if trimmed := strings.TrimSpace(*addr); trimmed != "" {
		cfg.HTTPAddr = trimmed
	}
	if trimmed := strings.TrimSpace(*catalogPath); trimmed != "" {
		cfg.CatalogPath = trimmed
	}
	if trimmed := strings.TrimSpace(*redisAddr); trimmed != "" {
		cfg.RedisAddr = trimmed
	}
	if *candidateCap > 0 {
		cfg.CandidateCap = *candidateCap
	}
	if trimmed := strings.TrimSpace(*refreshInterval); trimmed != "" {
		dur, err := time.ParseDuration(trimmed)
		if err != nil {
			logger.Error("skillbridge: invalid refresh interval", "value", trimmed, "error", err)
			fmt.Println("refresh interval error:", err)
			os.Exit(1)
		}
		cfg.RefreshInterval = dur
	}

	logger.Info("skillbridge: startup initiated", "addr", cfg.HTTPAddr, "catalog", cfg.CatalogPath)

	store, err := catalog.Open(cfg.CatalogPath)
	if err != nil {
		logger.Error("skillbridge: catalog open failed", "error", err)
		fmt.Println("catalog error:", err)
		os.Exit(1)
	}
	defer store.Close()

	provider := llm.NewProvider()
	logger.Info("skillbridge: llm provider ready", "provider", provider.Name(), "available", provider.Available())

	var cache embed.Cache = embed.NewStoreCache(store)
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
		err := client.Ping(pingCtx).Err()
		pingCancel()
		if err != nil {
			logger.Warn("skillbridge: redis unreachable, using catalog cache only", "addr", cfg.RedisAddr, "error", err)
			client.Close()
		} else {
			logger.Info("skillbridge: redis embedding cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.RedisTTL)
			cache = embed.NewRedisCache(client, cfg.RedisTTL, cache)
			defer client.Close()
		}
	}

	interval := rate.Limit(1)
	if cfg.EmbedDelay > 0 {
		interval = rate.Every(cfg.EmbedDelay)
	}
	batcher := llm.NewBatcher(provider, cfg.EmbedBatch, interval)

	engine := match.NewEngine(store, provider,
		match.WithCandidateCap(cfg.CandidateCap),
		match.WithCache(cache),
		match.WithBatcher(batcher),
	)
	refresher := refresh.NewRefresher(store, batcher)
	if provider.Available() {
		if err := refresher.Start(ctx, cfg.RefreshInterval); err != nil {
			logger.Error("skillbridge: refresher start failed", "error", err)
			fmt.Println("refresher error:", err)
			os.Exit(1)
		}
		defer refresher.Stop()
	} else {
		logger.Warn("skillbridge: profile refresher disabled, no embedding provider")
	}

	server, err := api.NewServer(store, engine, provider)
	if err != nil {
		logger.Error("skillbridge: server construction failed", "error", err)
		fmt.Println("server error:", err)
		os.Exit(1)
	}

	logger.Info("skillbridge: server listening", "addr", cfg.HTTPAddr, "health", "/api/health")
	fmt.Printf("Serving on %s\n", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, server); err != nil {
		logger.Error("skillbridge: server stopped", "error", err)
		fmt.Println("server stopped:", err)
	}
}
