// Package entity defines the quote returned by the price provider.
package entity

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Quote is the current name and price of a security.
type Quote struct {
	Symbol string
	Name   string
	Price  decimal.Decimal
}

// symbolPattern accepts ticker forms such as AAPL, BRK.B, BTC/USD and RDS-A.
var symbolPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9./\-]{0,14}$`)

// NormalizeSymbol trims and upper-cases a user supplied ticker.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// IsValidSymbol reports whether s, after normalization, looks like a ticker.
func IsValidSymbol(s string) bool {
	return symbolPattern.MatchString(NormalizeSymbol(s))
}
