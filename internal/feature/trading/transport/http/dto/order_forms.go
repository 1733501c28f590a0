// Package dto defines the order forms of the buy and sell pages.
package dto

import "strings"

// BuyForm is the POST /buy form. Owned is the select of held symbols, used when Symbol is blank.
type BuyForm struct {
	Symbol string `form:"symbol" binding:"omitempty,symbol"`
	Owned  string `form:"owned" binding:"omitempty,symbol"`
	Shares string `form:"shares" binding:"max=16"`
}

// EffectiveSymbol returns the typed symbol, falling back to the selected holding.
func (f BuyForm) EffectiveSymbol() string {
	if s := strings.TrimSpace(f.Symbol); s != "" {
		return s
	}
	return f.Owned
}

// SellForm is the POST /sell form.
type SellForm struct {
	Symbol string `form:"symbol" binding:"omitempty,symbol"`
	Shares string `form:"shares" binding:"max=16"`
}
