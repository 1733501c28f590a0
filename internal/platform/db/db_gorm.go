// Package db opens the gorm connection to the ledger database.
package db

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	authadapters "stock_trader/internal/feature/auth/adapters"
	tradingadapters "stock_trader/internal/feature/trading/adapters"
)

const (
	// connectTimeout bounds how long OpenDB keeps retrying while the database starts.
	connectTimeout = 60 * time.Second
	// retryInterval is the pause between connection attempts.
	retryInterval = 3 * time.Second
)

// Config holds the PostgreSQL connection settings.
type Config struct {
	Host        string `mapstructure:"host"`
	Port        string `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	Name        string `mapstructure:"name"`
	SSLMode     string `mapstructure:"sslmode"`
	URL         string `mapstructure:"url"`          // takes precedence over the discrete fields
	AutoMigrate bool   `mapstructure:"auto_migrate"` // RUN_MIGRATIONS
}

// Opener opens a gorm connection for a DSN. It is swapped out in tests.
type Opener func(dsn string) (*gorm.DB, error)

// BuildDSN returns the connection string for cfg.
func BuildDSN(cfg Config) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, sslmode)
}

// PostgresOpener opens dsn with the postgres driver.
// TranslateError maps unique violations to gorm.ErrDuplicatedKey.
func PostgresOpener(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
}

// ConnectWithRetry calls open until it succeeds or timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("db connect failed, retrying", "error", err, "retry_in", retryInterval)

		wait := retryInterval
		if remaining := time.Until(deadline); remaining < wait {
			wait = remaining
		}
		if wait > 0 {
			time.Sleep(wait)
		}
	}
}

// Migrate creates or updates the ledger and session tables with gorm AutoMigrate.
// Production deployments use the goose migrations under migrations/ instead.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&authadapters.AccountModel{},
		&authadapters.SessionModel{},
		&tradingadapters.HoldingModel{},
		&tradingadapters.HistoryModel{},
	)
}

// OpenDB connects to PostgreSQL and runs AutoMigrate when cfg.AutoMigrate is set.
func OpenDB(cfg Config) (*gorm.DB, error) {
	db, err := ConnectWithRetry(BuildDSN(cfg), connectTimeout, PostgresOpener)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
		slog.Info("database schema migrated")
	}
	return db, nil
}
