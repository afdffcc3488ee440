package driven

// Chunker splits extracted document text into overlapping pieces.
type Chunker interface {
	// Name returns the chunker name for logging.
	Name() string

	// Split returns the non-empty trimmed chunks of text in order.
	Split(text string) ([]string, error)
}
