// Package config loads application settings from an optional appsettings.yaml and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"stock_trader/internal/platform/db"
	"stock_trader/internal/platform/externalapi/twelvedata"
	"stock_trader/internal/platform/redis"
)

// Config is the full application configuration.
type Config struct {
	App     AppConfig         `mapstructure:"app"`
	Log     LogConfig         `mapstructure:"log"`
	Port    string            `mapstructure:"port"`
	DB      db.Config         `mapstructure:"db"`
	Redis   redis.Config      `mapstructure:"redis"`
	JWT     JWTConfig         `mapstructure:"jwt"`
	Session SessionConfig     `mapstructure:"session"`
	Quote   twelvedata.Config `mapstructure:"twelve_data"`
	Trading TradingConfig     `mapstructure:"trading"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type SessionConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	PurgeSchedule string        `mapstructure:"purge_schedule"`
}

// TradingConfig holds the simulator parameters.
type TradingConfig struct {
	InitialCash      string `mapstructure:"initial_cash"`
	QuoteConcurrency int    `mapstructure:"quote_concurrency"`
}

// InitialCashDecimal parses InitialCash.
func (t TradingConfig) InitialCashDecimal() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(t.InitialCash)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid initial cash %q: %w", t.InitialCash, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("initial cash must not be negative, got %s", d)
	}
	return d, nil
}

// IsDevelopment reports whether APP_ENV is development.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.App.Env, "development")
}

// envAliases maps keys whose environment variable does not follow the KEY_WITH_UNDERSCORES rule.
var envAliases = map[string]string{
	"db.url":                    "DATABASE_URL",
	"db.auto_migrate":           "RUN_MIGRATIONS",
	"twelve_data.timeout":       "QUOTE_TIMEOUT",
	"twelve_data.rate_limit":    "QUOTE_RATE_LIMIT",
	"trading.initial_cash":      "INITIAL_CASH",
	"trading.quote_concurrency": "QUOTE_CONCURRENCY",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "production")
	v.SetDefault("log.level", "info")
	v.SetDefault("port", "8080")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "finance")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.url", "")
	v.SetDefault("db.auto_migrate", false)

	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.purge_schedule", "@hourly")

	v.SetDefault("twelve_data.api_key", "")
	v.SetDefault("twelve_data.base_url", "https://api.twelvedata.com")
	v.SetDefault("twelve_data.timeout", 5*time.Second)
	v.SetDefault("twelve_data.rate_limit", 8)

	v.SetDefault("trading.initial_cash", "10000.00")
	v.SetDefault("trading.quote_concurrency", 4)
}

// Load reads appsettings.yaml from path (if present) and overlays environment variables.
// A missing settings file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("appsettings")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envAliases {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if _, err := cfg.Trading.InitialCashDecimal(); err != nil {
		return nil, err
	}
	if cfg.Trading.QuoteConcurrency <= 0 {
		cfg.Trading.QuoteConcurrency = 1
	}
	return &cfg, nil
}
