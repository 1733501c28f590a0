package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"stock_trader/internal/app/di"
	"stock_trader/internal/platform/config"
	"stock_trader/internal/platform/db"
	"stock_trader/internal/platform/logger"
	infraredis "stock_trader/internal/platform/redis"
	"stock_trader/internal/platform/render"
	"stock_trader/internal/platform/scheduler"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load(".")
	if err != nil {
		return err
	}
	log := logger.Setup(os.Stdout, cfg.Log.Level, cfg.IsDevelopment())
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.JWT.Secret == "" {
		if !cfg.IsDevelopment() {
			return errors.New("JWT_SECRET must be set outside development")
		}
		slog.Warn("[WARN] JWT_SECRET is not set. Using a random secret; sessions end on restart.")
		cfg.JWT.Secret = uuid.NewString()
	}
	if cfg.Quote.APIKey == "" {
		slog.Warn("[WARN] TWELVE_DATA_API_KEY is not set. Quote lookups will fail.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.OpenDB(cfg.DB)
	if err != nil {
		return err
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer func() { _ = sqlDB.Close() }()
	}

	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis); err != nil {
		slog.Warn("[WARN] Redis unavailable. Sessions are stored in the database.", "error", err)
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	container, err := di.NewContainer(cfg, gdb, rdb, di.NewQuoteClient(cfg.Quote))
	if err != nil {
		return err
	}
	pages, err := render.Load()
	if err != nil {
		return err
	}

	jobs := scheduler.New(time.Minute)
	if err := jobs.Add("purge-sessions", cfg.Session.PurgeSchedule, func(ctx context.Context) error {
		_, err := container.Auth.PurgeExpiredSessions(ctx)
		return err
	}); err != nil {
		return err
	}
	jobs.Start()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           container.Router(pages, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := jobs.Stop(shutdownCtx); err != nil {
		slog.Warn("scheduler did not stop in time", "error", err)
	}
	return srv.Shutdown(shutdownCtx)
}
