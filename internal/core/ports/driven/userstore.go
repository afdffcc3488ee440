package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/docvault/internal/core/domain"
)

// UserStore persists users and their incremental counters.
type UserStore interface {
	// Save creates or replaces a user.
	// Returns domain.ErrAlreadyExists when another user has the same email.
	Save(ctx context.Context, user *domain.User) error

	// Get retrieves a user by ID. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email. Returns domain.ErrNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// TouchLogin sets the user's last login time.
	TouchLogin(ctx context.Context, id string, at time.Time) error

	// IncrementStats atomically adds the deltas to the user's counters.
	// Negative deltas decrement. Returns domain.ErrNotFound if absent.
	IncrementStats(ctx context.Context, id string, docDelta, charDelta int) error
}
