// Package entity defines holdings, transaction records and the valued portfolio.
package entity

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Holding is an account's current position in one symbol. Shares is always positive.
type Holding struct {
	AccountID uint
	Symbol    string
	Name      string
	Shares    int64
}

// Transaction is one append-only history record.
// Shares is signed: positive for a buy, negative for a sell.
type Transaction struct {
	ID         uint
	AccountID  uint
	Symbol     string
	Name       string
	Price      decimal.Decimal
	Shares     int64
	ExecutedAt time.Time
}

// IsBuy reports whether the record acquired shares.
func (t Transaction) IsBuy() bool {
	return t.Shares > 0
}

// Amount is the absolute cash moved by the trade.
func (t Transaction) Amount() decimal.Decimal {
	n := t.Shares
	if n < 0 {
		n = -n
	}
	return t.Price.Mul(decimal.NewFromInt(n))
}

// MaxShares caps a single order so price*quantity stays in a sane range.
const MaxShares = 1_000_000_000

var digits = regexp.MustCompile(`^[0-9]+$`)

// ParseShares parses a form quantity. Only whole, strictly positive share counts are accepted.
func ParseShares(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if !digits.MatchString(s) {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 || n > MaxShares {
		return 0, false
	}
	return n, true
}
