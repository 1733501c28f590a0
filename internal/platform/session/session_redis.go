// Package session provides the Redis backed session store.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_trader/internal/feature/auth/domain/entity"
	"stock_trader/internal/feature/auth/usecase"
)

// DefaultPrefix namespaces the session keys.
const DefaultPrefix = "session"

// SessionRedis implements usecase.SessionRepository using Redis.
// Each session is a JSON string expiring with the session, and each account
// has a set of its session ids used by RevokeAllByAccountID.
type SessionRedis struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

var _ usecase.SessionRepository = (*SessionRedis)(nil)

// NewSessionRedis creates a new SessionRedis instance.
func NewSessionRedis(client redis.UniversalClient, prefix string) *SessionRedis {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &SessionRedis{client: client, prefix: prefix, now: time.Now}
}

func (r *SessionRedis) sessionKey(id string) string {
	return fmt.Sprintf("%s:%s", r.prefix, id)
}

func (r *SessionRedis) accountSessionsKey(accountID uint) string {
	return fmt.Sprintf("%s:account:%d", r.prefix, accountID)
}

// Create stores the session until its expiry.
func (r *SessionRedis) Create(ctx context.Context, session *entity.Session) error {
	ttl := session.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return errors.New("session already expired")
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	setKey := r.accountSessionsKey(session.AccountID)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.sessionKey(session.ID), data, ttl)
		pipe.SAdd(ctx, setKey, session.ID)
		pipe.Expire(ctx, setKey, ttl)
		return nil
	})
	return err
}

// FindByID retrieves a session by its id.
func (r *SessionRedis) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	data, err := r.client.Get(ctx, r.sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, err
	}

	var session entity.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Revoke marks a session as revoked, keeping its remaining TTL.
func (r *SessionRedis) Revoke(ctx context.Context, id string) error {
	session, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if session.IsRevoked() {
		return nil
	}

	now := r.now()
	session.RevokedAt = &now
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return r.client.Set(ctx, r.sessionKey(id), data, redis.KeepTTL).Err()
}

// RevokeAllByAccountID revokes every session of an account.
func (r *SessionRedis) RevokeAllByAccountID(ctx context.Context, accountID uint) error {
	setKey := r.accountSessionsKey(accountID)
	ids, err := r.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return err
	}
	for _, id := range ids {
		err := r.Revoke(ctx, id)
		if errors.Is(err, usecase.ErrSessionNotFound) {
			r.client.SRem(ctx, setKey, id)
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// DeleteExpired drops index entries whose session key has already expired.
// The sessions themselves are removed by Redis TTL.
func (r *SessionRedis) DeleteExpired(ctx context.Context) (int64, error) {
	var (
		removed int64
		cursor  uint64
	)
	pattern := fmt.Sprintf("%s:account:*", r.prefix)
	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return removed, err
		}
		for _, setKey := range keys {
			ids, err := r.client.SMembers(ctx, setKey).Result()
			if err != nil {
				return removed, err
			}
			for _, id := range ids {
				n, err := r.client.Exists(ctx, r.sessionKey(id)).Result()
				if err != nil {
					return removed, err
				}
				if n == 0 {
					if err := r.client.SRem(ctx, setKey, id).Err(); err != nil {
						return removed, err
					}
					removed++
				}
			}
		}
		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}
