package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"aiagents-backend/config"
	"aiagents-backend/internal/api"
	"aiagents-backend/internal/database"
	"aiagents-backend/internal/payment"
	"aiagents-backend/internal/payment/epay"
	"aiagents-backend/internal/services"
	"aiagents-backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// @title AI Agents marketplace API
// @version 1.0
// @description Accounts, sessions, agents, orders and admin analytics for the AI Agents marketplace.

// @BasePath /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	if err := logger.InitLogger(&logger.Config{
		Level:      cfg.LogLevel,
		Filename:   cfg.LogFilename,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   cfg.LogCompress,
		Console:    !cfg.IsProduction(),
	}); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Log.Fatal("failed to connect database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Log.Fatal("failed to migrate database", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = database.ConnectRedis(ctx, cfg)
		if err != nil {
			logger.Log.Fatal("failed to connect redis", zap.Error(err))
		}
		defer rdb.Close()
	} else {
		logger.Log.Warn("REDIS_HOST not set, running without cache")
	}

	var driver payment.Driver
	if cfg.EpayURL != "" {
		d, err := epay.New(epay.Config{URL: cfg.EpayURL, PID: cfg.EpayPID, Key: cfg.EpayKey})
		if err != nil {
			logger.Log.Fatal("failed to configure payment gateway", zap.Error(err))
		}
		driver = d
	}

	reg := services.NewRegistry(cfg, db, rdb, driver)

	created, err := reg.Auth.EnsureSuperAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		logger.Log.Fatal("failed to seed super admin", zap.Error(err))
	}
	if created {
		logger.Log.Info("super admin created", zap.String("email", cfg.AdminEmail))
	}

	go reg.Janitor.Start(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.NewRouter(cfg, reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("graceful shutdown failed", zap.Error(err))
	}
}
