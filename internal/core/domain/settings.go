package domain

import (
	"fmt"
	"path/filepath"
)

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI or any OpenAI-compatible API (Groq, vLLM).
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderHashing is the offline feature-hashing embedder.
	AIProviderHashing AIProvider = "hashing"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderHashing:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderHashing
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI-compatible (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderHashing:
		return "Feature hashing (offline)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions is the vector size, used by the hashing embedder.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == AIProviderAnthropic {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds response generator configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// Temperature controls sampling randomness.
	Temperature float64

	// MaxTokens caps the generated answer length.
	MaxTokens int
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Provider == AIProviderHashing {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// RetrievalSettings holds the tunable constants of chunking and ranking.
type RetrievalSettings struct {
	// ChunkSize is the maximum chunk length in bytes.
	ChunkSize int

	// ChunkOverlap is how many bytes each chunk reaches back into the
	// previous one.
	ChunkOverlap int

	// MinSimilarity is the exclusive lower bound for a similarity match.
	MinSimilarity float64

	// KeywordSaturation is the raw keyword count at which the keyword signal saturates.
	KeywordSaturation float64

	// VectorWeight is the weight of the similarity signal.
	VectorWeight float64

	// KeywordWeight is the weight of the keyword signal.
	KeywordWeight float64

	// MaxResults is the default number of ranked results.
	MaxResults int

	// SnippetWindow is the snippet length in bytes.
	SnippetWindow int

	// SnippetStep is the distance between candidate snippet starts.
	SnippetStep int

	// MaxContextChars bounds the assembled generation context.
	MaxContextChars int
}

// Validate checks the settings for values the pipelines cannot work with.
func (r RetrievalSettings) Validate() error {
	switch {
	case r.ChunkSize <= 0:
		return fmt.Errorf("%w: chunk size must be positive", ErrInvalidInput)
	case r.ChunkOverlap < 0 || r.ChunkOverlap >= r.ChunkSize:
		return fmt.Errorf("%w: chunk overlap must be in [0, chunk size)", ErrInvalidInput)
	case r.KeywordSaturation <= 0:
		return fmt.Errorf("%w: keyword saturation must be positive", ErrInvalidInput)
	case r.VectorWeight < 0 || r.KeywordWeight < 0:
		return fmt.Errorf("%w: weights must not be negative", ErrInvalidInput)
	case r.MaxResults <= 0:
		return fmt.Errorf("%w: max results must be positive", ErrInvalidInput)
	case r.SnippetWindow <= 0 || r.SnippetStep <= 0:
		return fmt.Errorf("%w: snippet window and step must be positive", ErrInvalidInput)
	case r.MaxContextChars <= 0:
		return fmt.Errorf("%w: max context must be positive", ErrInvalidInput)
	}
	return nil
}

// StorageBackend selects the record store implementation.
type StorageBackend string

// Available storage backends.
const (
	StorageMemory StorageBackend = "memory"
	StorageSQLite StorageBackend = "sqlite"
	StorageMongo  StorageBackend = "mongo"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageMemory, StorageSQLite, StorageMongo:
		return true
	default:
		return false
	}
}

// StorageSettings holds record store configuration.
type StorageSettings struct {
	// Backend selects the store.
	Backend StorageBackend

	// DataDir holds the SQLite database.
	DataDir string

	// MongoURI is the connection string for the mongo backend.
	MongoURI string

	// MongoDatabase is the database name for the mongo backend.
	MongoDatabase string
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Retrieval holds chunking and ranking constants.
	Retrieval RetrievalSettings

	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds response generator settings.
	LLM LLMSettings

	// Storage holds record store settings.
	Storage StorageSettings
}

// DefaultRetrievalSettings returns the standard chunking and ranking constants.
func DefaultRetrievalSettings() RetrievalSettings {
	return RetrievalSettings{
		ChunkSize:         1000,
		ChunkOverlap:      200,
		MinSimilarity:     0.1,
		KeywordSaturation: 10,
		VectorWeight:      0.7,
		KeywordWeight:     0.3,
		MaxResults:        5,
		SnippetWindow:     500,
		SnippetStep:       100,
		MaxContextChars:   6000,
	}
}

// DefaultAppSettings returns settings with sensible defaults.
// The offline hashing embedder is used until a real provider is configured.
// The LLM is left unconfigured, so answers fall back to retrieved context.
func DefaultAppSettings(homeDir string) AppSettings {
	return AppSettings{
		Retrieval: DefaultRetrievalSettings(),
		Embedding: EmbeddingSettings{
			Provider:   AIProviderHashing,
			Dimensions: 384,
		},
		LLM: LLMSettings{
			Temperature: 0.7,
			MaxTokens:   1000,
		},
		Storage: StorageSettings{
			Backend:       StorageSQLite,
			DataDir:       filepath.Join(homeDir, ".docvault", "data"),
			MongoDatabase: "docvault",
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderHashing,
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support answer generation.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:  "nomic-embed-text",
		AIProviderOpenAI:  "text-embedding-3-small",
		AIProviderHashing: "fnv-hashing",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
