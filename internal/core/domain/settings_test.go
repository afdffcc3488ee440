package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAIProvider_IsValid(t *testing.T) {
	for _, p := range []AIProvider{AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderHashing} {
		assert.True(t, p.IsValid(), p)
	}
	assert.False(t, AIProvider("bogus").IsValid())
}

func TestAIProvider_RequiresAPIKey(t *testing.T) {
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.True(t, AIProviderAnthropic.RequiresAPIKey())
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.False(t, AIProviderHashing.RequiresAPIKey())
}

func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings EmbeddingSettings
		want     bool
	}{
		{"hashing", EmbeddingSettings{Provider: AIProviderHashing}, true},
		{"ollama", EmbeddingSettings{Provider: AIProviderOllama}, true},
		{"openai without key", EmbeddingSettings{Provider: AIProviderOpenAI}, false},
		{"openai with key", EmbeddingSettings{Provider: AIProviderOpenAI, APIKey: "k"}, true},
		{"anthropic has no embeddings", EmbeddingSettings{Provider: AIProviderAnthropic, APIKey: "k"}, false},
		{"empty", EmbeddingSettings{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.settings.IsConfigured())
		})
	}
}

func TestLLMSettings_IsConfigured(t *testing.T) {
	assert.False(t, LLMSettings{}.IsConfigured())
	assert.False(t, LLMSettings{Provider: AIProviderHashing}.IsConfigured())
	assert.False(t, LLMSettings{Provider: AIProviderAnthropic}.IsConfigured())
	assert.True(t, LLMSettings{Provider: AIProviderAnthropic, APIKey: "k"}.IsConfigured())
	assert.True(t, LLMSettings{Provider: AIProviderOllama}.IsConfigured())
}

func TestDefaultRetrievalSettings(t *testing.T) {
	r := DefaultRetrievalSettings()
	require.NoError(t, r.Validate())
	assert.Equal(t, 1000, r.ChunkSize)
	assert.Equal(t, 200, r.ChunkOverlap)
	assert.InDelta(t, 0.1, r.MinSimilarity, 1e-9)
	assert.InDelta(t, 10.0, r.KeywordSaturation, 1e-9)
	assert.InDelta(t, 0.7, r.VectorWeight, 1e-9)
	assert.InDelta(t, 0.3, r.KeywordWeight, 1e-9)
	assert.Equal(t, 5, r.MaxResults)
	assert.Equal(t, 500, r.SnippetWindow)
	assert.Equal(t, 100, r.SnippetStep)
}

func TestRetrievalSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*RetrievalSettings)
	}{
		{"zero chunk size", func(r *RetrievalSettings) { r.ChunkSize = 0 }},
		{"overlap equals size", func(r *RetrievalSettings) { r.ChunkOverlap = r.ChunkSize }},
		{"negative overlap", func(r *RetrievalSettings) { r.ChunkOverlap = -1 }},
		{"zero saturation", func(r *RetrievalSettings) { r.KeywordSaturation = 0 }},
		{"negative weight", func(r *RetrievalSettings) { r.KeywordWeight = -0.1 }},
		{"zero results", func(r *RetrievalSettings) { r.MaxResults = 0 }},
		{"zero step", func(r *RetrievalSettings) { r.SnippetStep = 0 }},
		{"zero context", func(r *RetrievalSettings) { r.MaxContextChars = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := DefaultRetrievalSettings()
			tt.modify(&r)
			assert.ErrorIs(t, r.Validate(), ErrInvalidInput)
		})
	}
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings("/home/test")
	assert.Equal(t, StorageSQLite, s.Storage.Backend)
	assert.Equal(t, "/home/test/.docvault/data", s.Storage.DataDir)
	assert.True(t, s.Embedding.IsConfigured())
	assert.False(t, s.LLM.IsConfigured())
}

func TestChunkMetadata_DisplayName(t *testing.T) {
	assert.Equal(t, "notes.txt", ChunkMetadata{Filename: "notes.txt"}.DisplayName("abc"))
	assert.Equal(t, "doc_0123abcd", ChunkMetadata{}.DisplayName("0123abcd-ffff"))
	assert.Equal(t, "doc_ab", ChunkMetadata{}.DisplayName("ab"))
}

func TestUserStats_Consistent(t *testing.T) {
	s := UserStats{Stats: Stats{TotalDocs: 2, TotalChars: 10}, DocumentCount: 2, TotalCharacters: 10}
	assert.True(t, s.Consistent())
	s.DocumentCount = 3
	assert.False(t, s.Consistent())
}

func TestUploadResult_Count(t *testing.T) {
	r := &UploadResult{Outcomes: []ChunkOutcome{
		{Status: ChunkStored}, {Status: ChunkDuplicate}, {Status: ChunkStored}, {Status: ChunkFailed},
	}}
	assert.Equal(t, 2, r.Count(ChunkStored))
	assert.Equal(t, 1, r.Count(ChunkDuplicate))
	assert.Equal(t, 1, r.Count(ChunkFailed))
}
