package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"invalid input", New(ErrInvalidInput, "must provide a stock symbol"), http.StatusForbidden},
		{"unknown symbol", ErrUnknownSymbol, http.StatusForbidden},
		{"insufficient funds wrapped", fmt.Errorf("buy: %w", ErrInsufficientFunds), http.StatusForbidden},
		{"not owned", ErrNotOwned, http.StatusForbidden},
		{"insufficient shares", ErrInsufficientShares, http.StatusForbidden},
		{"username taken", ErrUsernameTaken, http.StatusForbidden},
		{"password mismatch", ErrPasswordMismatch, http.StatusForbidden},
		{"invalid credentials", ErrInvalidCredentials, http.StatusForbidden},
		{"quote unavailable", New(ErrQuoteUnavailable, "timeout"), http.StatusServiceUnavailable},
		{"unclassified", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"custom message", New(ErrInvalidInput, "must provide username"), "must provide username"},
		{"formatted message", Newf(ErrUnknownSymbol, "%s is not listed", "ZZZZ"), "ZZZZ is not listed"},
		{"bare sentinel", ErrInsufficientFunds, "insufficient funds"},
		{"wrapped sentinel", fmt.Errorf("sell: %w", ErrNotOwned), "symbol not owned"},
		{"quote unavailable keeps short text", ErrQuoteUnavailable, "quote service unavailable, try again later"},
		{"internal details hidden", errors.New("pq: relation does not exist"), "internal server error"},
		{"internal wrapped in Error hidden", fmt.Errorf("db: %w", errors.New("boom")), "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Message(tt.err))
		})
	}
}

func TestError_Is(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("outer: %w", New(ErrInsufficientShares, "you do not own that quantity of shares"))

	assert.ErrorIs(t, err, ErrInsufficientShares)
	assert.NotErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, "outer: insufficient shares: you do not own that quantity of shares", err.Error())
}
