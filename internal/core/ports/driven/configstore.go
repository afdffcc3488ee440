package driven

// ConfigStore persists settings under dotted keys such as "llm.model".
// Typed getters return the zero value for missing or mistyped keys.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetFloat(key string) float64

	// Set writes a single key.
	Set(key string, value any) error

	// Update writes all values as one change. A nil value removes the key.
	// Either every value is persisted or none is.
	Update(values map[string]any) error

	// Path describes where settings are kept.
	Path() string
}
