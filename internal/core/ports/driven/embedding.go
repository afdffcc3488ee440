package driven

import "context"

// EmbeddingService turns text into vectors. Records and queries of one
// deployment must share a model, otherwise similarity scores are
// meaningless; a stored vector whose length differs from Dimensions is
// skipped at query time.
type EmbeddingService interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one vector per input, in input order. Adapters
	// split large inputs into provider-sized requests.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	Dimensions() int
	ModelName() string

	// Ping reaches the provider without embedding anything.
	Ping(ctx context.Context) error

	Close() error
}
