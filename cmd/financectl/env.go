package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/subcommands"
	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"stock_trader/internal/app/di"
	authadapters "stock_trader/internal/feature/auth/adapters"
	authentity "stock_trader/internal/feature/auth/domain/entity"
	"stock_trader/internal/platform/config"
	"stock_trader/internal/platform/db"
	"stock_trader/internal/platform/logger"
	infraredis "stock_trader/internal/platform/redis"
)

// accountFinder resolves the -user flag.
type accountFinder interface {
	FindByUsername(ctx context.Context, username string) (*authentity.Account, error)
}

// app is everything a command may need, opened on demand.
type app struct {
	db        *gorm.DB
	container *di.Container
	accounts  accountFinder
	close     func()
}

type opener func(ctx context.Context) (*app, error)

type env struct {
	out  io.Writer
	errw io.Writer
	open opener
}

func newEnv(out, errw io.Writer, open opener) *env {
	return &env{out: out, errw: errw, open: open}
}

// fail prints err and returns the failure status.
func (e *env) fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(e.errw, err)
	return subcommands.ExitFailure
}

// withApp opens the app, runs fn and releases the connections.
func (e *env) withApp(ctx context.Context, fn func(a *app) error) subcommands.ExitStatus {
	a, err := e.open(ctx)
	if err != nil {
		return e.fail(err)
	}
	defer a.close()
	if err := fn(a); err != nil {
		return e.fail(err)
	}
	return subcommands.ExitSuccess
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(".")
	if err != nil {
		return nil, err
	}
	logger.Setup(os.Stderr, cfg.Log.Level, true)

	gdb, err := db.OpenDB(cfg.DB)
	if err != nil {
		return nil, err
	}

	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis); err == nil {
		rdb = tmp
	} else {
		slog.Debug("redis unavailable", "error", err)
	}

	if cfg.JWT.Secret == "" {
		// tokens are never issued from the CLI
		cfg.JWT.Secret = "financectl"
	}
	container, err := di.NewContainer(cfg, gdb, rdb, di.NewQuoteClient(cfg.Quote))
	if err != nil {
		return nil, err
	}

	return &app{
		db:        gdb,
		container: container,
		accounts:  authadapters.NewAccountGorm(gdb),
		close: func() {
			if rdb != nil {
				_ = rdb.Close()
			}
			if sqlDB, err := gdb.DB(); err == nil {
				_ = sqlDB.Close()
			}
		},
	}, nil
}
