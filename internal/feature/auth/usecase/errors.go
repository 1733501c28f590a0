package usecase

import "errors"

var (
	// ErrAccountNotFound is returned when no account matches a username or id.
	ErrAccountNotFound = errors.New("account not found")

	// ErrSessionNotFound is returned when a session id is unknown or has been purged.
	ErrSessionNotFound = errors.New("session not found")
)
