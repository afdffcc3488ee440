package driving

import (
	"context"

	"github.com/custodia-labs/docvault/internal/core/domain"
)

// QueryService answers questions from an owner's documents.
type QueryService interface {
	// Retrieve returns the owner's records ranked for the query.
	// maxResults <= 0 selects the configured default.
	// Dependency failures degrade to an empty result; only input errors are returned.
	Retrieve(ctx context.Context, ownerID, query string, maxResults int) ([]domain.RankedMatch, error)

	// BuildContext assembles generation context and a source description from matches.
	BuildContext(query string, matches []domain.RankedMatch) domain.RetrievedContext

	// Ask retrieves, builds context and generates an answer.
	Ask(ctx context.Context, ownerID, query string) (*domain.Answer, error)
}
