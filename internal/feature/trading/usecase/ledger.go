package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"stock_trader/internal/feature/trading/domain/entity"
)

var (
	// ErrAccountNotFound is returned when the account row does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrHoldingNotFound is returned when the account has no row for a symbol.
	ErrHoldingNotFound = errors.New("holding not found")
)

// Ledger is the persistent store of cash, holdings and history.
type Ledger interface {
	// WithinAccount runs fn in one database transaction that holds a lock on the account row.
	// Returning an error from fn rolls every change back.
	WithinAccount(ctx context.Context, accountID uint, fn func(tx LedgerTx) error) error

	// Cash returns the account's cash balance.
	Cash(ctx context.Context, accountID uint) (decimal.Decimal, error)

	// FindHolding returns the holding or ErrHoldingNotFound.
	FindHolding(ctx context.Context, accountID uint, symbol string) (*entity.Holding, error)

	// ListHoldings returns the account's holdings ordered by symbol.
	ListHoldings(ctx context.Context, accountID uint) ([]entity.Holding, error)

	// ListHistory returns the account's transaction records in insertion order.
	ListHistory(ctx context.Context, accountID uint) ([]entity.Transaction, error)
}

// LedgerTx is the view of one locked account inside WithinAccount.
type LedgerTx interface {
	// Cash is the balance read under the lock.
	Cash() decimal.Decimal

	// SetCash overwrites the balance.
	SetCash(cash decimal.Decimal) error

	// FindHolding returns the holding or ErrHoldingNotFound.
	FindHolding(symbol string) (*entity.Holding, error)

	// AddShares increments the holding, creating it if needed.
	AddShares(symbol, name string, shares int64) error

	// RemoveShares decrements the holding and deletes it when it reaches zero.
	RemoveShares(symbol string, shares int64) error

	// Append inserts a history record.
	Append(t *entity.Transaction) error
}
