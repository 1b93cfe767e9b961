package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gsme/workorder-system/internal/api"
	"github.com/gsme/workorder-system/internal/infrastructure/db/postgres"
	redisdb "github.com/gsme/workorder-system/internal/infrastructure/db/redis"
	"github.com/gsme/workorder-system/internal/infrastructure/storage"
	"github.com/gsme/workorder-system/internal/pkg/config"
	"github.com/gsme/workorder-system/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// @title           Work Order API
// @version         1.0
// @description     Role-based work assignment tracker: admins create and broadcast work orders, subordinates deliver them by uploading files.

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 JWT token, prefixed with "Bearer "

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "workorder-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "workorder-api",
	})

	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if cfg.AdminAccessKey == "" {
		return errors.New("ADMIN_ACCESS_KEY is required")
	}

	// --- Postgres ---
	if err := postgres.Migrate(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	pool, err := postgres.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	// --- Redis (the s3 backend's presigned URL cache) ---
	var rdb *redis.Client
	if cfg.Storage.Backend == storage.BackendS3 {
		rdb, err = redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rdb.Close()
	}

	// --- Artifact store ---
	store, err := storage.New(ctx, storage.Options{
		Backend:   cfg.Storage.Backend,
		LocalPath: cfg.Storage.LocalPath,
		S3: storage.S3Config{
			Bucket:    cfg.Storage.S3Bucket,
			Region:    cfg.Storage.S3Region,
			Endpoint:  cfg.Storage.S3Endpoint,
			AccessKey: cfg.Storage.S3AccessKey,
			SecretKey: cfg.Storage.S3SecretKey,
		},
		URLTTL: cfg.Storage.SignedURLTTL,
		Cache:  signedURLCache(rdb, cfg.Storage.SignedURLTTL),
		Logger: log,
	})
	if err != nil {
		return fmt.Errorf("init artifact store: %w", err)
	}

	e := api.NewRouter(pool, rdb, store, cfg, log)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
		}
	}()

	log.Info().
		Str("port", cfg.Port).
		Str("env", cfg.Env).
		Str("storage_backend", cfg.Storage.Backend).
		Msg("starting server")

	if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

func signedURLCache(rdb *redis.Client, urlTTL time.Duration) storage.URLCache {
	if rdb == nil {
		return nil
	}
	return redisdb.NewSignedURLCache(rdb, urlTTL)
}
