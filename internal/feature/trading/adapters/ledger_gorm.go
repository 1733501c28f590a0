// Package adapters provides the gorm ledger of the trading feature.
package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock_trader/internal/feature/trading/domain/entity"
	"stock_trader/internal/feature/trading/usecase"
	"stock_trader/internal/shared/apperror"
)

// ledgerGorm implements usecase.Ledger.
type ledgerGorm struct {
	db  *gorm.DB
	now func() time.Time
}

var _ usecase.Ledger = (*ledgerGorm)(nil)

// NewLedgerGorm creates a ledger on db.
func NewLedgerGorm(db *gorm.DB) *ledgerGorm {
	return &ledgerGorm{db: db, now: time.Now}
}

// WithinAccount locks the account row with SELECT ... FOR UPDATE and runs fn in the same transaction.
// Concurrent trades for one account therefore serialize on the row lock.
func (l *ledgerGorm) WithinAccount(ctx context.Context, accountID uint, fn func(tx usecase.LedgerTx) error) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var acct accountCash
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "cash").
			Where("id = ?", accountID).
			First(&acct).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return usecase.ErrAccountNotFound
			}
			return fmt.Errorf("lock account: %w", err)
		}
		return fn(&ledgerTx{tx: tx, account: acct, now: l.now})
	})
}

// Cash reads the balance without locking.
func (l *ledgerGorm) Cash(ctx context.Context, accountID uint) (decimal.Decimal, error) {
	var acct accountCash
	if err := l.db.WithContext(ctx).Select("id", "cash").Where("id = ?", accountID).First(&acct).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, usecase.ErrAccountNotFound
		}
		return decimal.Zero, err
	}
	return acct.Cash, nil
}

// FindHolding returns usecase.ErrHoldingNotFound when the account does not hold symbol.
func (l *ledgerGorm) FindHolding(ctx context.Context, accountID uint, symbol string) (*entity.Holding, error) {
	return findHolding(l.db.WithContext(ctx), accountID, symbol)
}

// ListHoldings returns holdings ordered by symbol.
func (l *ledgerGorm) ListHoldings(ctx context.Context, accountID uint) ([]entity.Holding, error) {
	var models []HoldingModel
	if err := l.db.WithContext(ctx).
		Where("account_id = ? AND quantity > 0", accountID).
		Order("symbol ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	holdings := make([]entity.Holding, len(models))
	for i := range models {
		holdings[i] = models[i].ToEntity()
	}
	return holdings, nil
}

// ListHistory returns history rows in insertion order.
func (l *ledgerGorm) ListHistory(ctx context.Context, accountID uint) ([]entity.Transaction, error) {
	var models []HistoryModel
	if err := l.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("id ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	records := make([]entity.Transaction, len(models))
	for i := range models {
		records[i] = models[i].ToEntity()
	}
	return records, nil
}

func findHolding(db *gorm.DB, accountID uint, symbol string) (*entity.Holding, error) {
	var m HoldingModel
	if err := db.Where("account_id = ? AND symbol = ?", accountID, symbol).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrHoldingNotFound
		}
		return nil, err
	}
	h := m.ToEntity()
	return &h, nil
}

// ledgerTx is bound to one transaction. It must never touch the outer *gorm.DB.
type ledgerTx struct {
	tx      *gorm.DB
	account accountCash
	now     func() time.Time
}

var _ usecase.LedgerTx = (*ledgerTx)(nil)

func (t *ledgerTx) Cash() decimal.Decimal {
	return t.account.Cash
}

func (t *ledgerTx) SetCash(cash decimal.Decimal) error {
	if cash.IsNegative() {
		return apperror.New(apperror.ErrInsufficientFunds, "cash would go negative")
	}
	err := t.tx.Table("accounts").
		Where("id = ?", t.account.ID).
		Updates(map[string]interface{}{"cash": cash, "updated_at": t.now()}).Error
	if err != nil {
		return fmt.Errorf("update cash: %w", err)
	}
	t.account.Cash = cash
	return nil
}

func (t *ledgerTx) FindHolding(symbol string) (*entity.Holding, error) {
	return findHolding(t.tx, t.account.ID, symbol)
}

// AddShares upserts on (account_id, symbol).
func (t *ledgerTx) AddShares(symbol, name string, shares int64) error {
	now := t.now()
	m := HoldingModel{
		AccountID:    t.account.ID,
		Symbol:       symbol,
		SecurityName: name,
		Quantity:     shares,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := t.tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "account_id"}, {Name: "symbol"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("holdings.quantity + excluded.quantity"),
			"updated_at": now,
		}),
	}).Create(&m).Error
	if err != nil {
		return fmt.Errorf("upsert holding: %w", err)
	}
	return nil
}

// RemoveShares decrements the holding, deleting the row when nothing is left.
func (t *ledgerTx) RemoveShares(symbol string, shares int64) error {
	h, err := t.FindHolding(symbol)
	if err != nil {
		return err
	}
	if shares > h.Shares {
		return apperror.Newf(apperror.ErrInsufficientShares, "you only own %d shares of %s", h.Shares, symbol)
	}

	q := t.tx.Model(&HoldingModel{}).Where("account_id = ? AND symbol = ?", t.account.ID, symbol)
	if shares == h.Shares {
		err = q.Delete(&HoldingModel{}).Error
	} else {
		err = q.Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity - ?", shares),
			"updated_at": t.now(),
		}).Error
	}
	if err != nil {
		return fmt.Errorf("update holding: %w", err)
	}
	return nil
}

func (t *ledgerTx) Append(record *entity.Transaction) error {
	m := HistoryModelFromEntity(record)
	if err := t.tx.Create(m).Error; err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	record.ID = m.ID
	return nil
}
