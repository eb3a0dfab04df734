// In file: cmd/gateway/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dileep-u-k/decision-gateway/internal/cache"
	"github.com/dileep-u-k/decision-gateway/internal/fallback"
	"github.com/dileep-u-k/decision-gateway/internal/llm"
	"github.com/dileep-u-k/decision-gateway/internal/logging"
	"github.com/dileep-u-k/decision-gateway/internal/metrics"
	"github.com/dileep-u-k/decision-gateway/internal/orchestrator"
)

const (
	redisPingTimeout = 5 * time.Second
	shutdownTimeout  = 10 * time.Second
)

// main is the "Composition Root": it loads configuration, initializes all
// services, injects dependencies, and starts the server.
func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("❌ FATAL: Configuration Error: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("❌ FATAL: Could not build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	buildInfo := GetBuildInfo()
	logger.Info("🚀 Starting Decision Gateway", zap.String("version", buildInfo.Version), zap.String("commit", buildInfo.GitCommit))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("❌ FATAL", zap.Error(err))
	}
	logger.Info("👋 Server exited gracefully.")
}

func run(ctx context.Context, cfg *AppConfig, logger *zap.Logger) error {
	// 1. INITIALIZE STORAGE
	rdb, err := connectRedis(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	responses, err := newCache(cfg, rdb)
	if err != nil {
		return err
	}
	logger.Info("✅ Response cache ready", zap.String("backend", cfg.File.Cache.Backend), zap.Duration("ttl", cfg.File.Cache.TTL))

	// 2. INITIALIZE SERVICES
	var client llm.LLMClient
	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return fmt.Errorf("failed to create Gemini client: %w", err)
		}
		defer gemini.Close()
		client = gemini
	} else {
		logger.Warn("⚠️ GEMINI_API_KEY is not set; analyze requests will fail with 503")
	}

	fallbacks, err := fallback.New()
	if err != nil {
		return fmt.Errorf("failed to load fallback tables: %w", err)
	}

	m := metrics.Default()
	observers := orchestrator.MultiObserver{metricsObserver{m: m}}

	var profiler *llm.Profiler
	var profiles ProfileReader
	if rdb != nil {
		profiler = llm.NewProfiler(rdb, logger)
		profiles = profiler
		observers = append(observers, profilerObserver{p: profiler})
	}

	orchCfg := cfg.File.Orchestrator()
	orch := orchestrator.New(client, fallbacks, orchCfg,
		orchestrator.WithObserver(observers),
		orchestrator.WithLogger(logger),
	)

	gin.SetMode(cfg.GinMode)
	handler := NewGatewayHandler(orch, responses, profiles, orchCfg.Models(), m, logger, gin.Mode() != gin.ReleaseMode)
	logger.Info("✅ All services initialized.", zap.Strings("models", orchCfg.Models()))

	// 3. START BACKGROUND PROCESSES
	if client != nil && profiler != nil {
		checker := llm.NewHealthChecker(client, orchCfg.Models(), profiler, cfg.File.Server.HealthCheckInterval, logger)
		go checker.Run(ctx)
	}

	// 4. SETUP AND RUN THE WEB SERVER
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newEngine(handler, cfg.File.Server.CORSOrigins, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return serveWithGracefulShutdown(ctx, srv, logger)
}

// connectRedis returns nil when no address is configured. An unreachable
// Redis is fatal only when it backs the response cache.
func connectRedis(ctx context.Context, cfg *AppConfig, logger *zap.Logger) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		logger.Info("🔍 REDIS_ADDR not set; model profiles are disabled")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		if cfg.File.Cache.Backend == cacheBackendRedis {
			return nil, fmt.Errorf("could not connect to Redis at %s: %w", cfg.RedisAddr, err)
		}
		logger.Warn("⚠️ Could not connect to Redis; continuing without model profiles", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		return nil, nil
	}
	logger.Info("✅ Connected to Redis", zap.String("addr", cfg.RedisAddr))
	return rdb, nil
}

func newCache(cfg *AppConfig, rdb *redis.Client) (cache.Cache, error) {
	c := cfg.File.Cache
	if c.Backend == cacheBackendRedis {
		return cache.NewRedisCache(rdb, c.TTL), nil
	}
	mem, err := cache.NewMemoryCache(c.MaxEntries, c.TTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory cache: %w", err)
	}
	return mem, nil
}

// serveWithGracefulShutdown handles the server lifecycle.
func serveWithGracefulShutdown(ctx context.Context, srv *http.Server, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("👂 Gateway is listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("🛑 Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
