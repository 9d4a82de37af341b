package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"studybud/internal/config"
	"studybud/internal/database"
	"studybud/internal/handler"
	"studybud/internal/middleware"
	"studybud/internal/repository"
	"studybud/internal/service"
	"studybud/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var appLogger logger.Logger
	if cfg.IsProduction() {
		appLogger = logger.NewProduction(cfg.Log.Level)
	} else {
		appLogger = logger.New(cfg.Log.Level)
	}
	defer func() { _ = appLogger.Sync() }()

	db, err := database.Open(cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", "error", err, "driver", cfg.Database.Driver)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			appLogger.Warn("Failed to close database", "error", err)
		}
	}()

	if err := database.Ping(context.Background(), db); err != nil {
		appLogger.Fatal("Failed to ping database", "error", err)
	}
	appLogger.Info("Database connection established", "driver", cfg.Database.Driver)

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, cfg.Database.Driver, appLogger); err != nil {
			appLogger.Fatal("Failed to migrate database", "error", err)
		}
	}

	// Redis only backs the rate limiter.
	var rdb *redis.Client
	if cfg.RateLimit.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(context.Background()).Err(); err != nil {
			appLogger.Fatal("Failed to connect to Redis", "error", err)
		}
		appLogger.Info("Redis connection established")
	}

	repos := repository.NewRepositories(db, rdb, appLogger)
	services := service.NewServices(repos, cfg, appLogger)

	authMiddleware := middleware.NewAuthMiddleware(services.Auth, appLogger)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(services.RateLimit, cfg.RateLimit.Requests, cfg.RateLimit.Window, appLogger)

	handlers := handler.NewHandlers(services, db, appLogger)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      setupRouter(handlers, authMiddleware, rateLimitMiddleware, cfg, appLogger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Info("Starting server", "addr", srv.Addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
		return
	}

	appLogger.Info("Server exited")
}

func setupRouter(
	handlers *handler.Handlers,
	authMiddleware *middleware.AuthMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
	cfg *config.Config,
	log logger.Logger,
) http.Handler {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := handler.NewRouter(handlers, authMiddleware, rateLimitMiddleware, log)

	return middleware.CORS(cfg.CORS.AllowedOrigins).Handler(router)
}
