package usecase

import (
	"context"

	"stock_trader/internal/feature/auth/domain/entity"
)

// SessionRepository stores login sessions. It is implemented by the Redis store
// and by the gorm store used when Redis is not configured.
type SessionRepository interface {
	// Create persists a new session.
	Create(ctx context.Context, session *entity.Session) error

	// FindByID returns the session or ErrSessionNotFound.
	FindByID(ctx context.Context, id string) (*entity.Session, error)

	// Revoke marks a session as revoked. Unknown ids return ErrSessionNotFound.
	Revoke(ctx context.Context, id string) error

	// RevokeAllByAccountID revokes every active session of an account.
	RevokeAllByAccountID(ctx context.Context, accountID uint) error

	// DeleteExpired removes expired sessions and returns how many were removed.
	DeleteExpired(ctx context.Context) (int64, error)
}
