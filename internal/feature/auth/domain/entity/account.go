// Package entity defines the account and session entities.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a registered trader and their cash balance.
type Account struct {
	ID           uint
	Username     string
	PasswordHash string
	Cash         decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
