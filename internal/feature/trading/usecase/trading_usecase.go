// Package usecase implements buying, selling and valuing holdings.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	quoteentity "stock_trader/internal/feature/quote/domain/entity"
	"stock_trader/internal/feature/trading/domain/entity"
	"stock_trader/internal/shared/apperror"
)

// QuoteProvider returns the current quote for a normalized symbol.
type QuoteProvider interface {
	Lookup(ctx context.Context, symbol string) (quoteentity.Quote, error)
}

// TradingUsecase is the trading engine.
type TradingUsecase struct {
	ledger      Ledger
	quotes      QuoteProvider
	concurrency int
	now         func() time.Time
}

// NewTradingUsecase creates a TradingUsecase. concurrency bounds parallel quote lookups in Summary.
func NewTradingUsecase(ledger Ledger, quotes QuoteProvider, concurrency int) *TradingUsecase {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &TradingUsecase{ledger: ledger, quotes: quotes, concurrency: concurrency, now: time.Now}
}

func parseOrder(rawSymbol, rawShares string) (string, int64, error) {
	symbol := quoteentity.NormalizeSymbol(rawSymbol)
	if symbol == "" {
		return "", 0, apperror.New(apperror.ErrInvalidInput, "missing symbol")
	}
	if !quoteentity.IsValidSymbol(symbol) {
		return "", 0, apperror.Newf(apperror.ErrInvalidInput, "invalid symbol %q", rawSymbol)
	}
	shares, ok := entity.ParseShares(rawShares)
	if !ok {
		return "", 0, apperror.New(apperror.ErrInvalidInput, "shares must be a positive whole number")
	}
	return symbol, shares, nil
}

// Buy purchases shares at the current price.
func (u *TradingUsecase) Buy(ctx context.Context, accountID uint, rawSymbol, rawShares string) (*entity.Transaction, error) {
	symbol, shares, err := parseOrder(rawSymbol, rawShares)
	if err != nil {
		return nil, err
	}

	q, err := u.quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}
	cost := q.Price.Mul(decimal.NewFromInt(shares))

	record := &entity.Transaction{
		AccountID:  accountID,
		Symbol:     symbol,
		Name:       q.Name,
		Price:      q.Price,
		Shares:     shares,
		ExecutedAt: u.now(),
	}
	err = u.ledger.WithinAccount(ctx, accountID, func(tx LedgerTx) error {
		cash := tx.Cash()
		if cash.LessThan(cost) {
			return apperror.Newf(apperror.ErrInsufficientFunds, "can't afford %d %s at %s", shares, symbol, q.Price.StringFixed(2))
		}
		if err := tx.SetCash(cash.Sub(cost)); err != nil {
			return err
		}
		if err := tx.AddShares(symbol, q.Name, shares); err != nil {
			return err
		}
		return tx.Append(record)
	})
	if err != nil {
		return nil, wrapLedger("buy", err)
	}

	slog.Info("bought", "account_id", accountID, "symbol", symbol, "shares", shares, "price", q.Price.String())
	return record, nil
}

// Sell divests shares at the current price.
func (u *TradingUsecase) Sell(ctx context.Context, accountID uint, rawSymbol, rawShares string) (*entity.Transaction, error) {
	symbol, shares, err := parseOrder(rawSymbol, rawShares)
	if err != nil {
		return nil, err
	}

	// Checked before the quote so a bad order costs no provider call; checked again under the lock.
	h, err := u.ledger.FindHolding(ctx, accountID, symbol)
	if err := checkSellable(h, err, symbol, shares); err != nil {
		return nil, err
	}

	q, err := u.quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}
	proceeds := q.Price.Mul(decimal.NewFromInt(shares))

	record := &entity.Transaction{
		AccountID:  accountID,
		Symbol:     symbol,
		Name:       h.Name,
		Price:      q.Price,
		Shares:     -shares,
		ExecutedAt: u.now(),
	}
	err = u.ledger.WithinAccount(ctx, accountID, func(tx LedgerTx) error {
		h, err := tx.FindHolding(symbol)
		if err := checkSellable(h, err, symbol, shares); err != nil {
			return err
		}
		if err := tx.RemoveShares(symbol, shares); err != nil {
			return err
		}
		if err := tx.SetCash(tx.Cash().Add(proceeds)); err != nil {
			return err
		}
		return tx.Append(record)
	})
	if err != nil {
		return nil, wrapLedger("sell", err)
	}

	slog.Info("sold", "account_id", accountID, "symbol", symbol, "shares", shares, "price", q.Price.String())
	return record, nil
}

func checkSellable(h *entity.Holding, err error, symbol string, shares int64) error {
	if errors.Is(err, ErrHoldingNotFound) {
		return apperror.Newf(apperror.ErrNotOwned, "you don't own any %s", symbol)
	}
	if err != nil {
		return fmt.Errorf("find holding: %w", err)
	}
	if shares > h.Shares {
		return apperror.Newf(apperror.ErrInsufficientShares, "you only own %d shares of %s", h.Shares, symbol)
	}
	return nil
}

func wrapLedger(op string, err error) error {
	if apperror.IsBusiness(err) {
		return err
	}
	slog.Error("ledger transaction failed", "op", op, "error", err)
	return fmt.Errorf("%s: %w", op, err)
}

// Summary values every holding at its current price.
// Each holding gets its own lookup; lookups run concurrently up to the configured bound.
func (u *TradingUsecase) Summary(ctx context.Context, accountID uint) (entity.Portfolio, error) {
	cash, err := u.ledger.Cash(ctx, accountID)
	if err != nil {
		return entity.Portfolio{}, fmt.Errorf("read cash: %w", err)
	}
	holdings, err := u.ledger.ListHoldings(ctx, accountID)
	if err != nil {
		return entity.Portfolio{}, fmt.Errorf("list holdings: %w", err)
	}

	positions := make([]entity.Position, len(holdings))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.concurrency)
	for i, h := range holdings {
		g.Go(func() error {
			q, err := u.quotes.Lookup(gctx, h.Symbol)
			if err != nil {
				return err
			}
			positions[i] = entity.Position{
				Symbol: h.Symbol,
				Name:   h.Name,
				Shares: h.Shares,
				Price:  q.Price,
				Value:  q.Price.Mul(decimal.NewFromInt(h.Shares)),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return entity.Portfolio{}, err
	}

	return entity.NewPortfolio(positions, cash), nil
}

// History returns the account's transaction records, oldest first.
func (u *TradingUsecase) History(ctx context.Context, accountID uint) ([]entity.Transaction, error) {
	records, err := u.ledger.ListHistory(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return records, nil
}

// HeldSymbols lists the symbols the account owns, for the buy and sell forms.
func (u *TradingUsecase) HeldSymbols(ctx context.Context, accountID uint) ([]string, error) {
	holdings, err := u.ledger.ListHoldings(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list holdings: %w", err)
	}
	symbols := make([]string, len(holdings))
	for i, h := range holdings {
		symbols[i] = h.Symbol
	}
	return symbols, nil
}
