package di

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"stock_trader/internal/app/router"
	authadapters "stock_trader/internal/feature/auth/adapters"
	authhandler "stock_trader/internal/feature/auth/transport/handler"
	authusecase "stock_trader/internal/feature/auth/usecase"
	quotehandler "stock_trader/internal/feature/quote/transport/handler"
	quoteusecase "stock_trader/internal/feature/quote/usecase"
	tradingadapters "stock_trader/internal/feature/trading/adapters"
	tradinghandler "stock_trader/internal/feature/trading/transport/handler"
	tradingusecase "stock_trader/internal/feature/trading/usecase"
	"stock_trader/internal/platform/config"
	"stock_trader/internal/platform/http/handler"
	jwtmw "stock_trader/internal/platform/jwt"
	"stock_trader/internal/platform/render"
)

// Container holds the usecases shared by the server and the CLI.
type Container struct {
	Auth     *authusecase.AuthUsecase
	Quotes   *quoteusecase.QuoteUsecase
	Trading  *tradingusecase.TradingUsecase
	Tokens   *jwtmw.Generator
	Sessions authusecase.SessionRepository

	db  *gorm.DB
	rdb *redis.Client
}

// NewContainer wires repositories and usecases. rdb may be nil.
func NewContainer(cfg *config.Config, db *gorm.DB, rdb *redis.Client, provider quoteusecase.QuoteProvider) (*Container, error) {
	initialCash, err := cfg.Trading.InitialCashDecimal()
	if err != nil {
		return nil, err
	}
	if cfg.JWT.Secret == "" {
		return nil, errors.New("jwt secret is not set")
	}

	tokens := jwtmw.NewGenerator(cfg.JWT.Secret)
	sessions := NewSessionRepository(rdb, db)

	return &Container{
		Auth:     authusecase.NewAuthUsecase(authadapters.NewAccountGorm(db), sessions, tokens, initialCash, cfg.Session.TTL),
		Quotes:   quoteusecase.NewQuoteUsecase(provider),
		Trading:  tradingusecase.NewTradingUsecase(tradingadapters.NewLedgerGorm(db), provider, cfg.Trading.QuoteConcurrency),
		Tokens:   tokens,
		Sessions: sessions,
		db:       db,
		rdb:      rdb,
	}, nil
}

// Router builds the HTTP engine with a health check of every backing store.
func (c *Container) Router(pages *render.Templates, logger *slog.Logger) *gin.Engine {
	deps := map[string]handler.Pinger{
		"database": handler.PingFunc(func(ctx context.Context) error {
			sqlDB, err := c.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
	}
	if c.rdb != nil {
		deps["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return c.rdb.Ping(ctx).Err()
		})
	}

	return router.NewRouter(router.Handlers{
		Auth:    authhandler.NewAuthHandler(c.Auth, c.Tokens),
		Quote:   quotehandler.NewQuoteHandler(c.Quotes),
		Trading: tradinghandler.NewTradingHandler(c.Trading),
		Health:  handler.NewHealthHandler(deps),
	}, router.Sessions{
		Tokens: c.Tokens,
		Store:  c.Sessions,
	}, pages, logger)
}
