// Package usecase resolves user entered symbols to quotes.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"stock_trader/internal/feature/quote/domain/entity"
	"stock_trader/internal/shared/apperror"
)

// QuoteProvider looks up the current quote for a normalized symbol.
// Implementations return apperror.ErrUnknownSymbol when there is no match
// and apperror.ErrQuoteUnavailable when the provider cannot answer.
type QuoteProvider interface {
	Lookup(ctx context.Context, symbol string) (entity.Quote, error)
}

// QuoteUsecase validates symbols before they reach the provider.
type QuoteUsecase struct {
	provider QuoteProvider
}

// NewQuoteUsecase creates a QuoteUsecase.
func NewQuoteUsecase(provider QuoteProvider) *QuoteUsecase {
	return &QuoteUsecase{provider: provider}
}

// Lookup normalizes raw and returns its quote.
func (u *QuoteUsecase) Lookup(ctx context.Context, raw string) (entity.Quote, error) {
	symbol := entity.NormalizeSymbol(raw)
	if symbol == "" {
		return entity.Quote{}, apperror.New(apperror.ErrInvalidInput, "missing symbol")
	}
	if !entity.IsValidSymbol(symbol) {
		return entity.Quote{}, apperror.Newf(apperror.ErrInvalidInput, "invalid symbol %q", raw)
	}

	q, err := u.provider.Lookup(ctx, symbol)
	if err != nil {
		if errors.Is(err, apperror.ErrUnknownSymbol) || errors.Is(err, apperror.ErrQuoteUnavailable) {
			return entity.Quote{}, err
		}
		slog.Error("quote lookup failed", "symbol", symbol, "error", err)
		return entity.Quote{}, fmt.Errorf("lookup %s: %w", symbol, err)
	}
	return q, nil
}
