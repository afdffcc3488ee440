package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("retrieval.chunk_size", 800))
	require.NoError(t, store.Set("retrieval.vector_weight", 0.65))
	require.NoError(t, store.Set("retrieval.keyword_saturation", int64(12)))
	require.NoError(t, store.Set("embedding.provider", "ollama"))

	assert.Equal(t, 800, store.GetInt("retrieval.chunk_size"))
	assert.InDelta(t, 0.65, store.GetFloat("retrieval.vector_weight"), 1e-9)
	assert.InDelta(t, 12.0, store.GetFloat("retrieval.keyword_saturation"), 1e-9)
	assert.Equal(t, "ollama", store.GetString("embedding.provider"))
	assert.Equal(t, ":memory:", store.Path())

	_, ok := store.Get("nope")
	assert.False(t, ok)
	assert.Zero(t, store.GetInt("embedding.provider"))
}

func TestConfigStore_UpdateRemovesNilKeys(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Update(map[string]any{
		"llm.provider": "openai",
		"llm.api_key":  "sk-test",
	}))
	require.NoError(t, store.Update(map[string]any{"llm.api_key": nil}))

	assert.Equal(t, "openai", store.GetString("llm.provider"))
	_, ok := store.Get("llm.api_key")
	assert.False(t, ok)
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("retrieval.max_results", n)
			_ = store.GetInt("retrieval.max_results")
		}(i)
	}
	wg.Wait()

	_, ok := store.Get("retrieval.max_results")
	assert.True(t, ok)
}
