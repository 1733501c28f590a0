// Package handler serves the portfolio, buy, sell and history pages.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_trader/internal/feature/trading/domain/entity"
	"stock_trader/internal/feature/trading/transport/http/dto"
	jwtmw "stock_trader/internal/platform/jwt"
	"stock_trader/internal/platform/render"
	"stock_trader/internal/shared/apperror"
)

// TradingUsecase defines the trading operations the handler needs.
type TradingUsecase interface {
	Buy(ctx context.Context, accountID uint, rawSymbol, rawShares string) (*entity.Transaction, error)
	Sell(ctx context.Context, accountID uint, rawSymbol, rawShares string) (*entity.Transaction, error)
	Summary(ctx context.Context, accountID uint) (entity.Portfolio, error)
	History(ctx context.Context, accountID uint) ([]entity.Transaction, error)
	HeldSymbols(ctx context.Context, accountID uint) ([]string, error)
}

// TradingHandler handles the pages behind the login.
type TradingHandler struct {
	trading TradingUsecase
}

// NewTradingHandler creates a TradingHandler.
func NewTradingHandler(trading TradingUsecase) *TradingHandler {
	return &TradingHandler{trading: trading}
}

// accountID reads the id placed in the request context by SessionRequired.
func accountID(c *gin.Context) (uint, bool) {
	id, ok := jwtmw.AccountIDFrom(c.Request.Context())
	if !ok {
		slog.Error("trading route reached without a session", "path", c.Request.URL.Path)
		c.Redirect(http.StatusFound, jwtmw.LoginPath)
		c.Abort()
	}
	return id, ok
}

// Index handles GET / with the valued portfolio.
func (h *TradingHandler) Index(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}
	portfolio, err := h.trading.Summary(c.Request.Context(), id)
	if err != nil {
		render.Apology(c, err)
		return
	}
	render.Page(c, http.StatusOK, "index.html", gin.H{"Portfolio": portfolio})
}

// BuyForm handles GET /buy.
func (h *TradingHandler) BuyForm(c *gin.Context) {
	h.orderForm(c, "buy.html")
}

// Buy handles POST /buy.
func (h *TradingHandler) Buy(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}
	var form dto.BuyForm
	if err := c.ShouldBind(&form); err != nil {
		slog.Debug("buy form rejected", "error", err)
		render.Apology(c, apperror.New(apperror.ErrInvalidInput, "must provide a valid symbol and share count"))
		return
	}
	if _, err := h.trading.Buy(c.Request.Context(), id, form.EffectiveSymbol(), form.Shares); err != nil {
		render.Apology(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// SellForm handles GET /sell.
func (h *TradingHandler) SellForm(c *gin.Context) {
	h.orderForm(c, "sell.html")
}

// Sell handles POST /sell.
func (h *TradingHandler) Sell(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}
	var form dto.SellForm
	if err := c.ShouldBind(&form); err != nil {
		slog.Debug("sell form rejected", "error", err)
		render.Apology(c, apperror.New(apperror.ErrInvalidInput, "must provide a valid symbol and share count"))
		return
	}
	if _, err := h.trading.Sell(c.Request.Context(), id, form.Symbol, form.Shares); err != nil {
		render.Apology(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// History handles GET /history.
func (h *TradingHandler) History(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}
	records, err := h.trading.History(c.Request.Context(), id)
	if err != nil {
		render.Apology(c, err)
		return
	}
	render.Page(c, http.StatusOK, "history.html", gin.H{"History": records})
}

func (h *TradingHandler) orderForm(c *gin.Context, page string) {
	id, ok := accountID(c)
	if !ok {
		return
	}
	owned, err := h.trading.HeldSymbols(c.Request.Context(), id)
	if err != nil {
		render.Apology(c, err)
		return
	}
	render.Page(c, http.StatusOK, page, gin.H{"Owned": owned})
}
