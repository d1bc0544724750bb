package repository

import (
	"context"

	"github.com/oksasatya/go-user-management/internal/domain/entity"
)

// SessionStore relays one message per visitor session across a redirect.
type SessionStore interface {
	// SetMessage replaces any pending message for the session.
	SetMessage(ctx context.Context, sessionID string, msg entity.Message) error
	// TakeMessage returns the pending message and clears it. It returns nil
	// when nothing is pending.
	TakeMessage(ctx context.Context, sessionID string) (*entity.Message, error)
}
