// Package handler serves the quote lookup pages.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_trader/internal/feature/quote/domain/entity"
	"stock_trader/internal/feature/quote/transport/http/dto"
	"stock_trader/internal/platform/render"
	"stock_trader/internal/shared/apperror"
)

// QuoteUsecase is the lookup the handler depends on.
type QuoteUsecase interface {
	Lookup(ctx context.Context, raw string) (entity.Quote, error)
}

// QuoteHandler renders the quote form and its result.
type QuoteHandler struct {
	quotes QuoteUsecase
}

// NewQuoteHandler creates a QuoteHandler.
func NewQuoteHandler(quotes QuoteUsecase) *QuoteHandler {
	return &QuoteHandler{quotes: quotes}
}

// Form handles GET /quote.
func (h *QuoteHandler) Form(c *gin.Context) {
	render.Page(c, http.StatusOK, "quote.html", nil)
}

// Lookup handles POST /quote.
func (h *QuoteHandler) Lookup(c *gin.Context) {
	var form dto.QuoteForm
	if err := c.ShouldBind(&form); err != nil {
		slog.Debug("quote form rejected", "error", err)
		render.Apology(c, apperror.New(apperror.ErrInvalidInput, "must provide a valid symbol"))
		return
	}

	q, err := h.quotes.Lookup(c.Request.Context(), form.Symbol)
	if err != nil {
		render.Apology(c, err)
		return
	}
	render.Page(c, http.StatusOK, "quoted.html", gin.H{"Quote": q})
}
