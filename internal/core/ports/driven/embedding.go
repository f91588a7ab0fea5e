package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Note: This is separate from VectorIndex which stores and searches
// vectors. EmbeddingService generates vectors; VectorIndex stores them.
//
// The same model must be used for indexing and for query embedding; a
// mismatch silently degrades retrieval to near-random, so the wiring
// layer validates Dimensions() against the index configuration before
// any call is made.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	// Fails loudly on service error; never truncates or pads.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// The result preserves a 1:1 mapping from input to vector.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g. 1536).
	// Determined by the model and must match the VectorIndex dimension.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
