package adapters

import (
	"time"

	"github.com/shopspring/decimal"

	"stock_trader/internal/feature/auth/domain/entity"
)

// AccountModel is the GORM model for the accounts table.
type AccountModel struct {
	ID           uint            `gorm:"primaryKey"`
	Username     string          `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string          `gorm:"column:password_hash;size:255;not null"`
	Cash         decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for GORM.
func (AccountModel) TableName() string {
	return "accounts"
}

// ToEntity converts the GORM model to a domain entity.
func (m *AccountModel) ToEntity() *entity.Account {
	return &entity.Account{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Cash:         m.Cash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// AccountModelFromEntity converts a domain entity to a GORM model.
func AccountModelFromEntity(a *entity.Account) *AccountModel {
	return &AccountModel{
		ID:           a.ID,
		Username:     a.Username,
		PasswordHash: a.PasswordHash,
		Cash:         a.Cash,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
