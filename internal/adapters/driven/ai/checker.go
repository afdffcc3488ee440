package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
)

var _ driven.ProviderChecker = (*Checker)(nil)

// probeText is embedded to confirm the provider's vector size.
const probeText = "docvault dimension probe"

// Checker checks provider settings before they are saved, so a typo in
// a model name is caught by "settings" rather than by the next upload.
type Checker struct {
	timeout time.Duration
}

// NewChecker creates a checker that gives each provider pingTimeout to
// answer.
func NewChecker() *Checker {
	return &Checker{timeout: pingTimeout}
}

// CheckEmbedding pings the embedder and, when settings pin a vector
// size, embeds a probe to confirm the provider really returns it.
func (c *Checker) CheckEmbedding(ctx context.Context, settings *domain.EmbeddingSettings) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	svc, err := CreateAndValidateEmbeddingService(ctx, settings)
	if err != nil || svc == nil {
		return err
	}
	defer svc.Close()

	if settings.Dimensions <= 0 {
		return nil
	}
	vec, err := svc.Embed(ctx, probeText)
	if err != nil {
		return fmt.Errorf("%w: probe embedding failed: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if len(vec) != settings.Dimensions {
		return fmt.Errorf("%w: model %s returns %d dimensions, settings expect %d",
			domain.ErrDimensionMismatch, svc.ModelName(), len(vec), settings.Dimensions)
	}
	return nil
}

// CheckLLM pings the generator.
func (c *Checker) CheckLLM(ctx context.Context, settings *domain.LLMSettings) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	svc, err := CreateAndValidateLLMService(ctx, settings)
	if svc != nil {
		svc.Close()
	}
	return err
}
