package driven

import (
	"context"

	"github.com/custodia-labs/docvault/internal/core/domain"
)

// SimilaritySearcher finds an owner's records most similar to a query vector.
// The linear scan in services is the reference implementation; an
// approximate index can replace it behind this interface.
type SimilaritySearcher interface {
	// Search returns at most limit matches with similarity above the
	// configured threshold, most similar first.
	Search(ctx context.Context, ownerID string, query []float32, limit int) ([]domain.ScoredMatch, error)
}
