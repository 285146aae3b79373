package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/TimashaWanninyake/intern-progress-analyzer/cmd"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/ai"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/analytics"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/auth"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/config"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/logger"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/otel"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/otp"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/report"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/server"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/server/validator"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/store/cache"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/store/sqlite"

	// Import providers to trigger init() registration
	_ "github.com/TimashaWanninyake/intern-progress-analyzer/internal/ai/anthropic"
	_ "github.com/TimashaWanninyake/intern-progress-analyzer/internal/ai/ollama"
	_ "github.com/TimashaWanninyake/intern-progress-analyzer/internal/ai/openai"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger.Initialize(cfg.Server.Env)
	log := logger.Get()
	defer logger.Sync()

	cmd.CheckForUpdates()

	validator.InitValidator()

	shutdownTracer, err := otel.InitTracer("intern-progress-analyzer", log, os.Stdout)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	repo, err := sqlite.NewSQLiteStorage(cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer repo.Close()

	var cacheSvc cache.CacheService
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer redisCache.Close()
		cacheSvc = redisCache
		log.Info("Using Redis cache", zap.String("addr", cfg.Redis.Addr))
	} else {
		cacheSvc = cache.NewMemoryCache()
		log.Info("Using in-memory cache")
	}

	registry := ai.Bootstrap(cfg.AI.Providers, log)

	healthChecker := report.NewHealthChecker(
		registry,
		time.Duration(cfg.AI.HealthTimeoutSecs)*time.Second,
		log,
	)

	generator := report.NewGenerator(
		registry,
		time.Duration(cfg.AI.GenerateTimeoutSecs)*time.Second,
		log,
	)
	orchestrator := report.NewOrchestrator(generator, healthChecker, cfg.AI.FallbackOrder, log)
	estimator := report.NewCostEstimator(registry, cfg.AI.TypicalOutputTokens)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ingestor := analytics.NewIngestor(log, repo)
	ingestor.Start(ctx)

	reportService := report.NewService(repo, registry, orchestrator, estimator, ingestor, log)

	authService := auth.NewService(
		cfg.Auth.JWTSecret,
		"intern-progress-analyzer",
		time.Duration(cfg.Auth.TokenTTLHours)*time.Hour,
		cfg.Auth.BcryptCost,
	)
	otpService := otp.NewService(cacheSvc, otp.NewSender(cfg.Email, log), log)

	// Warm the health cache so the first provider listing is informed.
	go func() {
		warmCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		healthChecker.CheckAll(warmCtx)
	}()

	srv := server.New(server.Deps{
		Config:   cfg,
		Logger:   log,
		Repo:     repo,
		Registry: registry,
		Health:   healthChecker,
		Reports:  reportService,
		Auth:     authService,
		OTP:      otpService,
	})

	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: srv.Handler(),
	}

	go func() {
		log.Info("Server listening", zap.String("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error("Tracer shutdown failed", zap.Error(err))
	}
	ingestor.Stop()
}
