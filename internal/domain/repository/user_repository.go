package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-user-management/internal/domain/entity"
)

// ErrNotFound is returned when no user has the requested id.
var ErrNotFound = errors.New("not found")

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	// Create stores u and fills in its ID and timestamps.
	Create(ctx context.Context, u *entity.User) error
	// List returns every user in insertion order.
	List(ctx context.Context) ([]entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// UpdateByID replaces all mutable fields and returns the updated user.
	UpdateByID(ctx context.Context, id string, f entity.UserFields) (*entity.User, error)
	// DeleteByID removes the user and returns it as it was before removal.
	DeleteByID(ctx context.Context, id string) (*entity.User, error)
}
