package entity

import "github.com/shopspring/decimal"

// Position is a holding valued at the current price.
type Position struct {
	Symbol string
	Name   string
	Shares int64
	Price  decimal.Decimal
	Value  decimal.Decimal
}

// Portfolio is the account summary shown on the index page.
type Portfolio struct {
	Positions     []Position
	Cash          decimal.Decimal
	HoldingsTotal decimal.Decimal
	Total         decimal.Decimal
}

// NewPortfolio totals the positions and adds cash.
func NewPortfolio(positions []Position, cash decimal.Decimal) Portfolio {
	holdings := decimal.Zero
	for _, p := range positions {
		holdings = holdings.Add(p.Value)
	}
	return Portfolio{
		Positions:     positions,
		Cash:          cash,
		HoldingsTotal: holdings,
		Total:         holdings.Add(cash),
	}
}
