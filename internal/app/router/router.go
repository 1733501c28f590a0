// Package router wires the handlers onto the gin engine.
package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authhandler "stock_trader/internal/feature/auth/transport/handler"
	quotehandler "stock_trader/internal/feature/quote/transport/handler"
	tradinghandler "stock_trader/internal/feature/trading/transport/handler"
	platformhttp "stock_trader/internal/platform/http"
	"stock_trader/internal/platform/http/handler"
	jwtmw "stock_trader/internal/platform/jwt"
	"stock_trader/internal/platform/render"
	"stock_trader/internal/platform/validation"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth    *authhandler.AuthHandler
	Quote   *quotehandler.QuoteHandler
	Trading *tradinghandler.TradingHandler
	Health  *handler.HealthHandler
}

// Sessions are the dependencies of the session middleware.
type Sessions struct {
	Tokens jwtmw.TokenParser
	Store  jwtmw.SessionFinder
}

// NewRouter builds the engine. Every response is uncacheable and errors render the apology page.
func NewRouter(h Handlers, s Sessions, pages *render.Templates, logger *slog.Logger) *gin.Engine {
	if err := validation.Register(); err != nil {
		slog.Error("custom validators not registered", "error", err)
	}

	r := gin.New()
	r.HTMLRender = pages
	r.Use(
		platformhttp.RequestLogger(logger),
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			slog.Error("panic recovered", "path", c.Request.URL.Path, "panic", recovered)
			render.ApologyMessage(c, http.StatusInternalServerError, "internal server error")
		}),
		platformhttp.NoCache(),
	)
	r.NoRoute(func(c *gin.Context) {
		render.ApologyMessage(c, http.StatusNotFound, "page not found")
	})
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		render.ApologyMessage(c, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)
	r.OPTIONS("/healthz", h.Health.Health)

	// public
	r.GET("/register", h.Auth.RegisterForm)
	r.POST("/register", h.Auth.Register)
	r.GET("/login", h.Auth.LoginForm)
	r.POST("/login", h.Auth.Login)
	r.GET("/logout", h.Auth.Logout)
	r.POST("/logout", h.Auth.Logout)

	auth := r.Group("/")
	auth.Use(jwtmw.SessionRequired(s.Tokens, s.Store, render.Apology))
	{
		auth.GET("/", h.Trading.Index)
		auth.GET("/quote", h.Quote.Form)
		auth.POST("/quote", h.Quote.Lookup)
		auth.GET("/buy", h.Trading.BuyForm)
		auth.POST("/buy", h.Trading.Buy)
		auth.GET("/sell", h.Trading.SellForm)
		auth.POST("/sell", h.Trading.Sell)
		auth.GET("/history", h.Trading.History)
		auth.POST("/logout/all", h.Auth.LogoutEverywhere)
	}

	return r
}
