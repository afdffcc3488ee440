package driven

import (
	"context"

	"github.com/custodia-labs/docvault/internal/core/domain"
)

// RecordStore persists chunk records partitioned by owner.
// Every method is scoped to a single owner; no call ever returns
// another owner's records.
type RecordStore interface {
	// Insert stores a record and returns its assigned ID.
	// Returns domain.ErrDuplicate when the owner already has a record
	// with the same fingerprint, and domain.ErrDimensionMismatch when the
	// embedding length differs from previously stored embeddings.
	Insert(ctx context.Context, record *domain.ChunkRecord) (string, error)

	// FindAll returns a snapshot of the owner's records in insertion order.
	FindAll(ctx context.Context, ownerID string) ([]domain.ChunkRecord, error)

	// Exists reports whether the owner has a record with the fingerprint.
	Exists(ctx context.Context, ownerID, fingerprint string) (bool, error)

	// HasDocument reports whether the owner has any record whose
	// metadata carries the given whole-document fingerprint.
	HasDocument(ctx context.Context, ownerID, documentFingerprint string) (bool, error)

	// DeleteAll removes every record of the owner and reports the totals removed.
	DeleteAll(ctx context.Context, ownerID string) (domain.DeleteSummary, error)

	// Aggregate computes stats over the owner's records.
	// An owner with no records yields zero totals and an empty histogram.
	Aggregate(ctx context.Context, ownerID string) (*domain.Stats, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
