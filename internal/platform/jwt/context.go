package jwtmw

import "context"

type ctxKey int

const (
	accountIDKey ctxKey = iota
	sessionIDKey
)

// Gin context keys set by SessionRequired.
const (
	ContextAccountID = "accountID"
	ContextSessionID = "sessionID"
)

// WithAccount returns ctx carrying the authenticated account and session.
func WithAccount(ctx context.Context, accountID uint, sessionID string) context.Context {
	ctx = context.WithValue(ctx, accountIDKey, accountID)
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// AccountIDFrom returns the authenticated account id stored by SessionRequired.
func AccountIDFrom(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(accountIDKey).(uint)
	return id, ok && id != 0
}

// SessionIDFrom returns the session id stored by SessionRequired.
func SessionIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey).(string)
	return id, ok && id != ""
}
