package driving

import (
	"context"

	"github.com/custodia-labs/docvault/internal/core/domain"
)

// SettingsService reads and writes the persisted configuration.
// Secrets supplied through the environment are never written back.
type SettingsService interface {
	// Get returns the effective settings: file values over defaults,
	// with environment secrets applied.
	Get() (*domain.AppSettings, error)

	// Save writes every section in one update.
	Save(settings *domain.AppSettings) error

	// SetRetrieval updates the chunking and ranking constants.
	SetRetrieval(retrieval domain.RetrievalSettings) error

	// SetEmbeddingProvider configures the embedding provider.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetLLMProvider configures the LLM provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// SetStorage configures the record store backend.
	SetStorage(storage domain.StorageSettings) error

	// Validate reports settings that could not build working services,
	// such as a hosted provider without an API key.
	Validate() error

	// GetDefaults returns the settings used when nothing is configured.
	GetDefaults() domain.AppSettings

	// CheckEmbedding reaches the saved embedding provider and confirms
	// its vector size.
	CheckEmbedding(ctx context.Context) error

	// CheckLLM reaches the saved LLM provider.
	CheckLLM(ctx context.Context) error
}
