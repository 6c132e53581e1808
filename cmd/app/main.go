package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IbnuAlii/GuulSideApp/internal/config"
	"github.com/IbnuAlii/GuulSideApp/internal/db"
	httpServer "github.com/IbnuAlii/GuulSideApp/internal/http"
	"github.com/IbnuAlii/GuulSideApp/internal/http/handlers"
	"github.com/IbnuAlii/GuulSideApp/internal/http/middleware"
	"github.com/IbnuAlii/GuulSideApp/internal/logger"
	"github.com/IbnuAlii/GuulSideApp/internal/repository"
	"github.com/IbnuAlii/GuulSideApp/internal/service"
	"github.com/IbnuAlii/GuulSideApp/internal/ws"

	"github.com/gin-gonic/gin"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	dbPool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connection failed", "error", err)
	}
	defer dbPool.Close()

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, dbPool); err != nil {
			logger.Fatal("migrations failed", "error", err)
		}
	}

	var limiter middleware.RateLimiter
	var redisPing handlers.Pinger
	rdb := middleware.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if rdb != nil {
		defer rdb.Close()
		limiter = middleware.NewRedisRateLimiter(rdb, cfg.AuthRateLimit, cfg.AuthRateWindow)
		redisPing = handlers.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	} else {
		limiter = middleware.NewMemoryRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)
	}

	hub := ws.NewHub()
	defer hub.Close()

	tokens := service.NewTokenIssuer(cfg.JWTSecret)
	audit := service.NewAuditService(repository.NewAuditRepository(dbPool))
	authService := service.NewAuthService(repository.NewUserRepository(dbPool), service.NewPasswordHasher(), tokens, audit)
	taskService := service.NewTaskService(repository.NewTaskRepository(dbPool), hub)

	r := httpServer.NewRouter(cfg, httpServer.Deps{
		Handler:     handlers.NewHandler(authService, taskService, cfg.IsDevelopment()),
		Health:      handlers.NewHealthHandler(dbPool, redisPing, version),
		Hub:         hub,
		Tokens:      tokens,
		AuthLimiter: limiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "env", cfg.Env, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
