package services

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
	"github.com/custodia-labs/docvault/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyChunkSize         = "retrieval.chunk_size"
	keyChunkOverlap      = "retrieval.chunk_overlap"
	keyMinSimilarity     = "retrieval.min_similarity"
	keyKeywordSaturation = "retrieval.keyword_saturation"
	keyVectorWeight      = "retrieval.vector_weight"
	keyKeywordWeight     = "retrieval.keyword_weight"
	keyMaxResults        = "retrieval.max_results"
	keySnippetWindow     = "retrieval.snippet_window"
	keySnippetStep       = "retrieval.snippet_step"
	keyMaxContextChars   = "retrieval.max_context_chars"
	keyEmbedProvider     = "embedding.provider"
	keyEmbedModel        = "embedding.model"
	keyEmbedBaseURL      = "embedding.base_url"
	keyEmbedAPIKey       = "embedding.api_key"
	keyEmbedDims         = "embedding.dimensions"
	keyLLMProvider       = "llm.provider"
	keyLLMModel          = "llm.model"
	keyLLMBaseURL        = "llm.base_url"
	keyLLMAPIKey         = "llm.api_key"
	keyLLMTemperature    = "llm.temperature"
	keyLLMMaxTokens      = "llm.max_tokens"
	keyStorageBackend    = "storage.backend"
	keyStorageDataDir    = "storage.data_dir"
	keyStorageMongoURI   = "storage.mongo_uri"
	keyStorageMongoDB    = "storage.mongo_database"
)

// Environment variables that override secrets and connection strings
// so they need not be written to the config file.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvEmbeddingAPIKey = "DOCVAULT_EMBEDDING_API_KEY"
	EnvLLMAPIKey       = "DOCVAULT_LLM_API_KEY"
	EnvMongoURI        = "DOCVAULT_MONGO_URI"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	checker     driven.ProviderChecker
	homeDir     string
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service. homeDir anchors
// the default data directory. A nil checker skips provider checks.
func NewSettingsService(configStore driven.ConfigStore, checker driven.ProviderChecker, homeDir string) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		checker:     checker,
		homeDir:     homeDir,
		lookupEnv:   os.LookupEnv,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings(s.homeDir)
	r := defaults.Retrieval

	settings := &domain.AppSettings{
		Retrieval: domain.RetrievalSettings{
			ChunkSize:         s.getInt(keyChunkSize, r.ChunkSize),
			ChunkOverlap:      s.getIntAllowZero(keyChunkOverlap, r.ChunkOverlap),
			MinSimilarity:     s.getFloatAllowZero(keyMinSimilarity, r.MinSimilarity),
			KeywordSaturation: s.getFloat(keyKeywordSaturation, r.KeywordSaturation),
			VectorWeight:      s.getFloatAllowZero(keyVectorWeight, r.VectorWeight),
			KeywordWeight:     s.getFloatAllowZero(keyKeywordWeight, r.KeywordWeight),
			MaxResults:        s.getInt(keyMaxResults, r.MaxResults),
			SnippetWindow:     s.getInt(keySnippetWindow, r.SnippetWindow),
			SnippetStep:       s.getInt(keySnippetStep, r.SnippetStep),
			MaxContextChars:   s.getInt(keyMaxContextChars, r.MaxContextChars),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:   s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:      s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:    s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:     s.getSecret(keyEmbedAPIKey, EnvEmbeddingAPIKey),
			Dimensions: s.getInt(keyEmbedDims, defaults.Embedding.Dimensions),
		},
		LLM: domain.LLMSettings{
			Provider:    s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:       s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:     s.configStore.GetString(keyLLMBaseURL),
			APIKey:      s.getSecret(keyLLMAPIKey, EnvLLMAPIKey),
			Temperature: s.getFloatAllowZero(keyLLMTemperature, defaults.LLM.Temperature),
			MaxTokens:   s.getInt(keyLLMMaxTokens, defaults.LLM.MaxTokens),
		},
		Storage: domain.StorageSettings{
			Backend:       s.getBackend(defaults.Storage.Backend),
			DataDir:       s.getString(keyStorageDataDir, defaults.Storage.DataDir),
			MongoURI:      s.getSecret(keyStorageMongoURI, EnvMongoURI),
			MongoDatabase: s.getString(keyStorageMongoDB, defaults.Storage.MongoDatabase),
		},
	}

	if settings.Embedding.Model == "" {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[settings.Embedding.Provider]
	}
	if settings.LLM.Model == "" {
		settings.LLM.Model = domain.DefaultLLMModels()[settings.LLM.Provider]
	}

	return settings, nil
}

// Save persists application settings in a single store update.
// Secrets are written only when set and not supplied by the environment,
// so keys exported in the shell never land in the config file.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	r := settings.Retrieval
	values := map[string]any{
		keyChunkSize:         r.ChunkSize,
		keyChunkOverlap:      r.ChunkOverlap,
		keyMinSimilarity:     r.MinSimilarity,
		keyKeywordSaturation: r.KeywordSaturation,
		keyVectorWeight:      r.VectorWeight,
		keyKeywordWeight:     r.KeywordWeight,
		keyMaxResults:        r.MaxResults,
		keySnippetWindow:     r.SnippetWindow,
		keySnippetStep:       r.SnippetStep,
		keyMaxContextChars:   r.MaxContextChars,
		keyEmbedProvider:     settings.Embedding.Provider.String(),
		keyEmbedModel:        settings.Embedding.Model,
		keyEmbedBaseURL:      settings.Embedding.BaseURL,
		keyEmbedDims:         settings.Embedding.Dimensions,
		keyLLMProvider:       settings.LLM.Provider.String(),
		keyLLMModel:          settings.LLM.Model,
		keyLLMBaseURL:        settings.LLM.BaseURL,
		keyLLMTemperature:    settings.LLM.Temperature,
		keyLLMMaxTokens:      settings.LLM.MaxTokens,
		keyStorageBackend:    string(settings.Storage.Backend),
		keyStorageDataDir:    settings.Storage.DataDir,
		keyStorageMongoDB:    settings.Storage.MongoDatabase,
	}
	secrets := []struct{ key, env, value string }{
		{keyEmbedAPIKey, EnvEmbeddingAPIKey, settings.Embedding.APIKey},
		{keyLLMAPIKey, EnvLLMAPIKey, settings.LLM.APIKey},
		{keyStorageMongoURI, EnvMongoURI, settings.Storage.MongoURI},
	}
	for _, sec := range secrets {
		if sec.value == "" {
			continue
		}
		if env, ok := s.lookupEnv(sec.env); ok && env == sec.value {
			continue
		}
		values[sec.key] = sec.value
	}

	if err := s.configStore.Update(values); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// SetRetrieval updates the chunking and ranking constants.
func (s *SettingsService) SetRetrieval(retrieval domain.RetrievalSettings) error {
	if err := retrieval.Validate(); err != nil {
		return err
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Retrieval = retrieval
	return s.Save(settings)
}

// SetEmbeddingProvider configures the embedding provider.
// Changing the provider of a populated store leaves existing vectors
// in the old model's space; clear and re-upload after switching.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	valid := false
	for _, p := range domain.AllEmbeddingProviders() {
		if p == provider {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[provider]
	}

	if provider == domain.AIProviderOllama {
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	if d, ok := domain.EmbeddingDimensions()[settings.Embedding.Model]; ok {
		settings.Embedding.Dimensions = d
	}

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() || provider == domain.AIProviderHashing {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	if model != "" {
		settings.LLM.Model = model
	} else {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}

	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetStorage configures the record store backend.
func (s *SettingsService) SetStorage(storage domain.StorageSettings) error {
	if !storage.Backend.IsValid() {
		return fmt.Errorf("invalid storage backend: %s", storage.Backend)
	}
	if storage.Backend == domain.StorageMongo && storage.MongoURI == "" {
		return fmt.Errorf("mongo backend requires a connection URI")
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	if storage.DataDir == "" {
		storage.DataDir = settings.Storage.DataDir
	}
	if storage.MongoDatabase == "" {
		storage.MongoDatabase = settings.Storage.MongoDatabase
	}
	settings.Storage = storage
	return s.Save(settings)
}

// Validate checks if current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if err := settings.Retrieval.Validate(); err != nil {
		return err
	}
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("embedding provider %q is not configured", settings.Embedding.Provider)
	}
	if settings.Storage.Backend == domain.StorageMongo && settings.Storage.MongoURI == "" {
		return fmt.Errorf("mongo backend requires %s or %s", keyStorageMongoURI, EnvMongoURI)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings(s.homeDir)
}

// CheckEmbedding runs the provider check on the saved embedding settings.
func (s *SettingsService) CheckEmbedding(ctx context.Context) error {
	if s.checker == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.checker.CheckEmbedding(ctx, &settings.Embedding)
}

// CheckLLM runs the provider check on the saved LLM settings.
func (s *SettingsService) CheckLLM(ctx context.Context) error {
	if s.checker == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.checker.CheckLLM(ctx, &settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getSecret(key, envVar string) string {
	if val, ok := s.lookupEnv(envVar); ok && val != "" {
		return val
	}
	return s.configStore.GetString(key)
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getIntAllowZero(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloatAllowZero(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	backend := domain.StorageBackend(s.configStore.GetString(keyStorageBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
