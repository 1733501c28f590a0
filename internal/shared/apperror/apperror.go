// Package apperror defines the error taxonomy shared by every feature and its mapping to HTTP responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors. Features wrap them with a human readable message via New,
// and callers classify with errors.Is.
var (
	// ErrInvalidInput is returned for missing or malformed form fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownSymbol is returned when the quote provider has no match for a symbol.
	ErrUnknownSymbol = errors.New("unknown symbol")

	// ErrInsufficientFunds is returned when a purchase costs more than the available cash.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNotOwned is returned when selling a symbol the account does not hold.
	ErrNotOwned = errors.New("symbol not owned")

	// ErrInsufficientShares is returned when selling more shares than held.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrUsernameTaken is returned when registering a username that already exists.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrPasswordMismatch is returned when the password confirmation is missing or different.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrInvalidCredentials is returned when the username or password is wrong.
	ErrInvalidCredentials = errors.New("invalid username and/or password")

	// ErrQuoteUnavailable is returned when the quote provider fails or times out.
	ErrQuoteUnavailable = errors.New("quote unavailable")
)

// Error carries a user facing message on top of one of the sentinel errors.
type Error struct {
	kind error
	msg  string
}

// New wraps kind with a user facing message.
func New(kind error, msg string) error {
	return &Error{kind: kind, msg: msg}
}

// Newf is New with fmt.Sprintf formatting.
func Newf(kind error, format string, args ...any) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.kind.Error() + ": " + e.msg
}

// Unwrap exposes the sentinel to errors.Is.
func (e *Error) Unwrap() error {
	return e.kind
}

// business lists the errors that are the caller's fault and may be shown verbatim.
var business = []error{
	ErrInvalidInput,
	ErrUnknownSymbol,
	ErrInsufficientFunds,
	ErrNotOwned,
	ErrInsufficientShares,
	ErrUsernameTaken,
	ErrPasswordMismatch,
	ErrInvalidCredentials,
}

// IsBusiness reports whether err is a validation or business rule failure.
func IsBusiness(err error) bool {
	for _, kind := range business {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// Status maps err to the HTTP status code of the apology page.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsBusiness(err):
		return http.StatusForbidden
	case errors.Is(err, ErrQuoteUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the text shown to the user. Unclassified errors never leak their details.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && (IsBusiness(err) || errors.Is(err, ErrQuoteUnavailable)) {
		return e.msg
	}
	switch {
	case IsBusiness(err):
		return firstKind(err).Error()
	case errors.Is(err, ErrQuoteUnavailable):
		return "quote service unavailable, try again later"
	default:
		return "internal server error"
	}
}

func firstKind(err error) error {
	for _, kind := range business {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return err
}
