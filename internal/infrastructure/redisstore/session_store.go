package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-user-management/internal/domain/entity"
	"github.com/oksasatya/go-user-management/internal/domain/repository"
	"github.com/oksasatya/go-user-management/pkg/helpers"
)

// SessionStore keeps the pending message of each session under its own key.
// Keys expire with the session cookie.
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl}
}

func messageKey(sessionID string) string {
	return "session:message:" + sessionID
}

func (s *SessionStore) SetMessage(ctx context.Context, sessionID string, msg entity.Message) error {
	return helpers.RedisSetJSON(ctx, s.rdb, messageKey(sessionID), msg, s.ttl)
}

func (s *SessionStore) TakeMessage(ctx context.Context, sessionID string) (*entity.Message, error) {
	var msg entity.Message
	ok, err := helpers.RedisTakeJSON(ctx, s.rdb, messageKey(sessionID), &msg)
	if err != nil || !ok {
		return nil, err
	}
	return &msg, nil
}

var _ repository.SessionStore = (*SessionStore)(nil)
