package driving

import (
	"context"

	"github.com/custodia-labs/docvault/internal/core/domain"
)

// UploadService ingests documents into an owner's corpus.
type UploadService interface {
	// Upload extracts, chunks, deduplicates, embeds and stores a document.
	Upload(ctx context.Context, ownerID, filename string, content []byte) (*domain.UploadResult, error)

	// SupportedExtensions lists the file extensions that can be uploaded.
	SupportedExtensions() []string
}

// StatsService reports on an owner's corpus.
type StatsService interface {
	// Aggregate returns on-demand stats merged with the owner's counters.
	Aggregate(ctx context.Context, ownerID string) (*domain.UserStats, error)
}

// UserService manages document owners.
type UserService interface {
	// Register creates a user.
	Register(ctx context.Context, name, email string) (*domain.User, error)

	// Get retrieves a user by ID or email.
	Get(ctx context.Context, idOrEmail string) (*domain.User, error)

	// RecordLogin stamps the user's last login time.
	RecordLogin(ctx context.Context, id string) (*domain.User, error)

	// Clear deletes all of the user's records and resets their counters.
	Clear(ctx context.Context, id string) (domain.DeleteSummary, error)
}

// HealthStatus reports which collaborators are reachable.
type HealthStatus struct {
	Store     error
	Embedding error
	LLM       error
}

// Healthy reports whether the required collaborators are reachable.
func (h HealthStatus) Healthy() bool {
	return h.Store == nil && h.Embedding == nil
}

// HealthService checks collaborator connectivity.
type HealthService interface {
	// Check pings every configured collaborator.
	Check(ctx context.Context) HealthStatus
}
