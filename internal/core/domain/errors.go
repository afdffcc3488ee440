package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file type no extractor understands.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrEmptyQuery indicates a query with no text.
	ErrEmptyQuery = errors.New("empty query")

	// ErrUnreadableDocument indicates extraction produced too little text.
	ErrUnreadableDocument = errors.New("could not extract meaningful text from document")

	// Dedup Errors.

	// ErrDuplicate indicates a chunk with the same fingerprint is already stored for the owner.
	ErrDuplicate = errors.New("duplicate chunk")

	// ErrDuplicateDocument indicates the whole upload is already present for the owner.
	ErrDuplicateDocument = errors.New("document already exists in your collection")

	// ErrUploadFailed indicates no chunk of an upload could be stored.
	ErrUploadFailed = errors.New("no chunks could be stored")

	// ErrDimensionMismatch indicates an embedding whose length differs from the store's.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// Collaborator Errors.

	// ErrEmbeddingUnavailable indicates the embedding service is not configured
	// or could not produce a vector.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrGeneratorUnavailable indicates the response generator is not configured.
	// Answers fall back to raw context when it is missing.
	ErrGeneratorUnavailable = errors.New("response generator unavailable")
)

// IsInputError reports whether err is caused by the caller's input
// rather than by a collaborator failure.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyQuery) ||
		errors.Is(err, ErrUnreadableDocument) ||
		errors.Is(err, ErrUnsupportedType)
}

// IsDuplicateError reports whether err signals already-stored content.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate) || errors.Is(err, ErrDuplicateDocument)
}
