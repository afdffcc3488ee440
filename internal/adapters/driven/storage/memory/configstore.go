package memory

import (
	"sync"

	"github.com/custodia-labs/docvault/internal/adapters/driven/config"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps settings in memory for tests and throwaway sessions.
type ConfigStore struct {
	mu     sync.RWMutex
	values config.Values
}

func NewConfigStore() *ConfigStore {
	return &ConfigStore{values: config.Values{}}
}

func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.values[key]
	return val, ok
}

func (s *ConfigStore) GetString(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.String(key)
}

func (s *ConfigStore) GetInt(key string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.Int(key)
}

func (s *ConfigStore) GetFloat(key string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.Float(key)
}

func (s *ConfigStore) Set(key string, value any) error {
	return s.Update(map[string]any{key: value})
}

func (s *ConfigStore) Update(values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values.Apply(values)
	return nil
}

func (s *ConfigStore) Path() string {
	return ":memory:"
}
