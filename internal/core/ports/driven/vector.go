package driven

import "context"

// RecordMetadata is the payload stored alongside each vector.
// The preview is bounded; synthesis reads full text from the ChunkStore.
type RecordMetadata struct {
	// Preview is the truncated chunk text, for display and debugging.
	Preview string

	// Section is the document heading the chunk came from.
	Section string
}

// VectorMatch is a single nearest-neighbour hit.
type VectorMatch struct {
	// ID is the matched record id (a chunk id).
	ID string

	// Score is the similarity score, higher is more similar.
	Score float64

	// Metadata is the payload stored at upsert time.
	Metadata RecordMetadata
}

// VectorIndex provides upsert and nearest-neighbour query operations
// against an external similarity search service.
//
// Record ids are unique within the index: upserting an existing id
// replaces the record, which is what makes indexing idempotent.
type VectorIndex interface {
	// Exists reports whether the configured index has been created.
	Exists(ctx context.Context) (bool, error)

	// Create provisions the index with the given dimension and metric.
	// Callers check Exists first; creation is never repeated.
	Create(ctx context.Context, dimension int, metric string) error

	// Upsert inserts or replaces the record with the given id.
	Upsert(ctx context.Context, id string, vector []float32, meta RecordMetadata) error

	// Query returns up to topK records ordered by descending score.
	// An empty index yields an empty slice, not an error.
	Query(ctx context.Context, vector []float32, topK int) ([]VectorMatch, error)

	// Dimensions returns the dimension the index was configured with,
	// used to validate against the embedding service before indexing.
	Dimensions() int

	// Close releases resources.
	Close() error
}
