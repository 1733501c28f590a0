// Package dto defines the form bodies accepted by the quote pages.
package dto

// QuoteForm is the POST /quote form.
type QuoteForm struct {
	Symbol string `form:"symbol" binding:"required,symbol"`
}
