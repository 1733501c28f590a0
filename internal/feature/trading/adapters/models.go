package adapters

import (
	"time"

	"github.com/shopspring/decimal"

	"stock_trader/internal/feature/trading/domain/entity"
)

// HoldingModel is the GORM model for the holdings table.
type HoldingModel struct {
	ID           uint   `gorm:"primaryKey"`
	AccountID    uint   `gorm:"not null;uniqueIndex:idx_holdings_account_symbol,priority:1"`
	Symbol       string `gorm:"size:16;not null;uniqueIndex:idx_holdings_account_symbol,priority:2"`
	SecurityName string `gorm:"size:255;not null"`
	Quantity     int64  `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for GORM.
func (HoldingModel) TableName() string {
	return "holdings"
}

// ToEntity converts the GORM model to a domain entity.
func (m *HoldingModel) ToEntity() entity.Holding {
	return entity.Holding{
		AccountID: m.AccountID,
		Symbol:    m.Symbol,
		Name:      m.SecurityName,
		Shares:    m.Quantity,
	}
}

// HistoryModel is the GORM model for the append-only history table.
type HistoryModel struct {
	ID             uint            `gorm:"primaryKey"`
	AccountID      uint            `gorm:"index;not null"`
	Symbol         string          `gorm:"size:16;not null"`
	SecurityName   string          `gorm:"size:255;not null"`
	Price          decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	SignedQuantity int64           `gorm:"not null"`
	Timestamp      time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM.
func (HistoryModel) TableName() string {
	return "history"
}

// ToEntity converts the GORM model to a domain entity.
func (m *HistoryModel) ToEntity() entity.Transaction {
	return entity.Transaction{
		ID:         m.ID,
		AccountID:  m.AccountID,
		Symbol:     m.Symbol,
		Name:       m.SecurityName,
		Price:      m.Price,
		Shares:     m.SignedQuantity,
		ExecutedAt: m.Timestamp,
	}
}

// HistoryModelFromEntity converts a domain entity to a GORM model.
func HistoryModelFromEntity(t *entity.Transaction) *HistoryModel {
	return &HistoryModel{
		AccountID:      t.AccountID,
		Symbol:         t.Symbol,
		SecurityName:   t.Name,
		Price:          t.Price,
		SignedQuantity: t.Shares,
		Timestamp:      t.ExecutedAt,
	}
}

// accountCash maps the cash column of the accounts table owned by the auth feature.
type accountCash struct {
	ID   uint
	Cash decimal.Decimal
}

func (accountCash) TableName() string {
	return "accounts"
}
