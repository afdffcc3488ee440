package services

import (
	"context"
	"time"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
	"github.com/custodia-labs/docvault/internal/core/ports/driving"
)

// Ensure HealthService implements the interface.
var _ driving.HealthService = (*HealthService)(nil)

const pingTimeout = 5 * time.Second

// HealthService pings the store and AI collaborators.
type HealthService struct {
	records  driven.RecordStore
	embedder driven.EmbeddingService
	llm      driven.LLMService
}

// NewHealthService creates a health service. embedder and llm may be nil.
func NewHealthService(records driven.RecordStore, embedder driven.EmbeddingService, llm driven.LLMService) *HealthService {
	return &HealthService{records: records, embedder: embedder, llm: llm}
}

// Check pings each collaborator with a bounded timeout.
func (s *HealthService) Check(ctx context.Context) driving.HealthStatus {
	var status driving.HealthStatus

	status.Store = ping(ctx, s.records.Ping)

	if s.embedder == nil {
		status.Embedding = domain.ErrEmbeddingUnavailable
	} else {
		status.Embedding = ping(ctx, s.embedder.Ping)
	}

	if s.llm == nil {
		status.LLM = domain.ErrGeneratorUnavailable
	} else {
		status.LLM = ping(ctx, s.llm.Ping)
	}
	return status
}

func ping(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return fn(ctx)
}
