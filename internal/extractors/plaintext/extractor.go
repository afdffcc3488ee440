// Package plaintext extracts text files that need no decoding beyond UTF-8.
package plaintext

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor handles plain text and text-like source files.
type Extractor struct{}

// New creates a new plaintext extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{
		"txt", "text", "log", "csv", "tsv",
		"json", "yaml", "yml", "toml", "xml",
		"go", "py", "js", "ts", "sql", "sh",
	}
}

// Extract returns the content as a string.
// Content that is not valid UTF-8 is rejected rather than stored garbled.
func (e *Extractor) Extract(_ context.Context, content []byte, filename string) (string, error) {
	content = trimBOM(content)
	if !utf8.Valid(content) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8", domain.ErrInvalidInput, filename)
	}
	return string(content), nil
}

func trimBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}
