// Package main is the entry point for the CRM reporting API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/crm-suite/backend/config"
	"github.com/crm-suite/backend/internal/infra/cache"
	"github.com/crm-suite/backend/internal/infra/db"
	"github.com/crm-suite/backend/internal/infra/dependency"
)

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting CRM Reports API",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"timezone", cfg.Report.Timezone,
	)

	database, err := db.NewPostgresConnection(&cfg.Database)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(); err != nil {
			slog.Error("Failed to run database migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("Database migrations completed successfully")
	}

	// Redis is optional; without it the rate limiter counts per instance.
	var redisClient *redis.Client
	var cacheHealth func() bool
	if cfg.Redis.URL != "" {
		rdb, err := cache.NewRedisConnection(&cfg.Redis)
		if err != nil {
			slog.Warn("Redis connection failed, rate limiting falls back to memory", "error", err)
		} else {
			redisClient = rdb.Client()
			cacheHealth = rdb.HealthCheck
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("Failed to close redis connection", "error", err)
				}
			}()
		}
	}

	injector, err := dependency.NewInjector(cfg, database.DB(), redisClient, dependency.Options{
		DBHealth:    database.HealthCheck,
		CacheHealth: cacheHealth,
	})
	if err != nil {
		slog.Error("Failed to wire dependencies", "error", err)
		os.Exit(1)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if cfg.Email.WorkerEnabled {
		go injector.Worker.Start(ctx)
	}
	if injector.RateLimiter != nil {
		go cleanupRateLimiter(ctx, injector)
	}

	engine := injector.Router.Setup(cfg.Server.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited properly")
}

// cleanupRateLimiter drops expired in-memory rate limit windows.
func cleanupRateLimiter(ctx context.Context, injector *dependency.Injector) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			injector.RateLimiter.Cleanup()
		}
	}
}
