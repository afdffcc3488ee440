package driven

import (
	"context"

	"github.com/custodia-labs/docvault/internal/core/domain"
)

// ProviderChecker confirms that provider settings work before they are
// relied on. Nil or incomplete settings pass, since nothing would be
// built from them.
type ProviderChecker interface {
	// CheckEmbedding reaches the embedder and, when Dimensions is set,
	// fails with domain.ErrDimensionMismatch if the model returns
	// vectors of another size.
	CheckEmbedding(ctx context.Context, settings *domain.EmbeddingSettings) error

	// CheckLLM reaches the generator.
	CheckLLM(ctx context.Context, settings *domain.LLMSettings) error
}
