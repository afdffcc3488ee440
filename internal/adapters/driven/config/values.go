// Package config holds the key/value model shared by the config stores.
//
// Settings are addressed by dotted keys such as "retrieval.chunk_size".
// Stores keep them flat in memory; the file store nests them into TOML
// tables on disk.
package config

import (
	"fmt"
	"sort"
	"strings"
)

// Values is a flat set of dotted settings keys.
type Values map[string]any

// String returns the value at key when it is a string.
func (v Values) String(key string) string {
	s, _ := v[key].(string)
	return s
}

// Int returns the value at key as an int. TOML decodes integers as
// int64; whole floats are accepted so JSON sourced values round-trip.
func (v Values) Int(key string) int {
	switch n := v[key].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		if n == float64(int64(n)) {
			return int(n)
		}
	}
	return 0
}

// Float returns the value at key as a float64, widening integers.
func (v Values) Float(key string) float64 {
	switch n := v[key].(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

// Apply merges updates into v. A nil update removes the key.
func (v Values) Apply(updates map[string]any) {
	for k, val := range updates {
		if val == nil {
			delete(v, k)
			continue
		}
		v[k] = val
	}
}

// Clone returns a shallow copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Keys returns the keys in sorted order.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Nest turns dotted keys into nested tables, e.g. "llm.model" into
// {"llm": {"model": ...}}. A key that is both a leaf and a table
// prefix is rejected.
func (v Values) Nest() (map[string]any, error) {
	root := make(map[string]any)
	for _, key := range v.Keys() {
		parts := strings.Split(key, ".")
		node := root
		for _, p := range parts[:len(parts)-1] {
			child, exists := node[p]
			if !exists {
				next := make(map[string]any)
				node[p] = next
				node = next
				continue
			}
			table, ok := child.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("config key %q conflicts with value at %q", key, p)
			}
			node = table
		}
		leaf := parts[len(parts)-1]
		if _, exists := node[leaf]; exists {
			return nil, fmt.Errorf("config key %q conflicts with a table", key)
		}
		node[leaf] = v[key]
	}
	return root, nil
}

// Flatten is the inverse of Nest.
func Flatten(tables map[string]any) Values {
	out := make(Values)
	flattenInto(out, tables, "")
	return out
}

func flattenInto(out Values, m map[string]any, prefix string) {
	for k, val := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := val.(map[string]any); ok {
			flattenInto(out, nested, key)
			continue
		}
		out[key] = val
	}
}
