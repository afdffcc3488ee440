package extractors

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps lowercased file extensions to extractors.
type Registry struct {
	mu         sync.RWMutex
	extractors map[string]driven.TextExtractor
}

// NewRegistry creates an empty extractor registry.
func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[string]driven.TextExtractor),
	}
}

// Register adds an extractor under each of its extensions.
// A later registration for the same extension replaces the earlier one.
func (r *Registry) Register(extractor driven.TextExtractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range extractor.SupportedExtensions() {
		r.extractors[normaliseExtension(ext)] = extractor
	}
}

// Extract runs the extractor registered for the filename's extension.
func (r *Registry) Extract(ctx context.Context, content []byte, filename string) (string, error) {
	ext := Extension(filename)

	r.mu.RLock()
	extractor, ok := r.extractors[ext]
	r.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedType, filename)
	}
	return extractor.Extract(ctx, content, filename)
}

// Has returns true if an extractor handles the extension.
func (r *Registry) Has(ext string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.extractors[normaliseExtension(ext)]
	return ok
}

// SupportedExtensions returns every registered extension, sorted.
func (r *Registry) SupportedExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.extractors))
	for ext := range r.extractors {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Extension returns the lowercased extension of filename without the dot.
func Extension(filename string) string {
	return normaliseExtension(filepath.Ext(filename))
}

func normaliseExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
