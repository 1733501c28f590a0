package di

import (
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "stock_trader/internal/feature/auth/adapters"
	"stock_trader/internal/feature/auth/usecase"
	"stock_trader/internal/platform/session"
)

// NewSessionRepository creates a SessionRepository implementation.
// If Redis is available, it returns a Redis-backed implementation.
// Otherwise, it falls back to the database.
func NewSessionRepository(rdb *redis.Client, db *gorm.DB) usecase.SessionRepository {
	if rdb != nil {
		return session.NewSessionRedis(rdb, session.DefaultPrefix)
	}
	slog.Warn("Redis unavailable, storing sessions in the database")
	return authadapters.NewSessionGorm(db)
}
