package driven

import "context"

// TextExtractor turns uploaded bytes into plain text.
// Each extractor handles a set of file extensions.
type TextExtractor interface {
	// SupportedExtensions returns lowercased extensions without the dot.
	SupportedExtensions() []string

	// Extract returns the document's text.
	Extract(ctx context.Context, content []byte, filename string) (string, error)
}

// ExtractorRegistry selects an extractor by filename.
type ExtractorRegistry interface {
	// Register adds an extractor, replacing earlier ones for the same extensions.
	Register(extractor TextExtractor)

	// Extract finds the extractor for the filename's extension and runs it.
	// Returns domain.ErrUnsupportedType when no extractor matches.
	Extract(ctx context.Context, content []byte, filename string) (string, error)

	// SupportedExtensions lists every registered extension.
	SupportedExtensions() []string
}
