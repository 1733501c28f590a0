// Package validation registers the custom binding tags used by the form DTOs.
package validation

import (
	"errors"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	quoteentity "stock_trader/internal/feature/quote/domain/entity"
)

var (
	once   sync.Once
	regErr error
)

// Register adds the "symbol" tag to gin's validator. It is safe to call more than once.
func Register() error {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			regErr = errors.New("gin validator is not go-playground/validator")
			return
		}
		regErr = RegisterOn(v)
	})
	return regErr
}

// RegisterOn adds the custom tags to v.
func RegisterOn(v *validator.Validate) error {
	return v.RegisterValidation("symbol", validSymbol)
}

// validSymbol accepts an empty field so it composes with required and omitempty.
func validSymbol(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	return quoteentity.IsValidSymbol(quoteentity.NormalizeSymbol(s))
}
