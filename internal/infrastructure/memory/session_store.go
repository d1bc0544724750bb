package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oksasatya/go-user-management/internal/domain/entity"
	"github.com/oksasatya/go-user-management/internal/domain/repository"
)

type pendingMessage struct {
	msg     entity.Message
	expires time.Time
}

// SessionStore is a map from session id to the pending message. A message
// expires ttl after it was set, like the session cookie carrying its id;
// expired entries are dropped on the next write. ttl <= 0 disables expiry.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	messages map[string]pendingMessage
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{ttl: ttl, now: time.Now, messages: make(map[string]pendingMessage)}
}

func (s *SessionStore) SetMessage(_ context.Context, sessionID string, msg entity.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)
	p := pendingMessage{msg: msg}
	if s.ttl > 0 {
		p.expires = now.Add(s.ttl)
	}
	s.messages[sessionID] = p
	return nil
}

func (s *SessionStore) TakeMessage(_ context.Context, sessionID string) (*entity.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.messages[sessionID]
	if !ok {
		return nil, nil
	}
	delete(s.messages, sessionID)
	if p.expired(s.now()) {
		return nil, nil
	}
	return &p.msg, nil
}

func (s *SessionStore) sweep(now time.Time) {
	for id, p := range s.messages {
		if p.expired(now) {
			delete(s.messages, id)
		}
	}
}

func (p pendingMessage) expired(now time.Time) bool {
	return !p.expires.IsZero() && !now.Before(p.expires)
}

var _ repository.SessionStore = (*SessionStore)(nil)
