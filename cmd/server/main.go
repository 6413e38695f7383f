package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/social-network-website/internal/api"
	"github.com/dom/social-network-website/internal/api/middleware"
	"github.com/dom/social-network-website/internal/config"
	"github.com/dom/social-network-website/internal/repository/postgres"
	"github.com/dom/social-network-website/internal/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := postgres.NewConnection(cfg.DatabaseURL, postgres.PoolOptions{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
		ConnMaxIdle:  cfg.DBConnMaxIdle,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("failed to access connection pool", "error", err)
		os.Exit(1)
	}

	repos := postgres.NewRepositories(db)
	services := service.NewServices(repos, cfg)

	// Redis keeps rate limits consistent across replicas; a single instance
	// falls back to the in-memory limiter.
	var limiter middleware.RateLimiter
	if cfg.RedisAddr != "" {
		limiter, err = middleware.NewRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
		if err != nil {
			logger.Warn("redis unavailable, using in-memory rate limiter", "error", err)
		}
	}
	if limiter == nil {
		limiter = middleware.NewMemoryRateLimiter()
	}
	defer limiter.Close()

	router := api.NewRouter(services, cfg, api.RouterOptions{
		Logger:   logger,
		Limiter:  limiter,
		DBHealth: sqlDB.PingContext,
	})

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
