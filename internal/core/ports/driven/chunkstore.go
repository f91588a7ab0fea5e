package driven

import (
	"context"

	"github.com/avenhq/avenassist/internal/core/domain"
)

// ChunkStore persists full chunk text keyed by chunk id.
//
// It is the side channel that decouples answer synthesis from the
// bounded metadata preview stored in the vector index: retrieval
// hydrates matches from here so the synthesiser always sees full text.
type ChunkStore interface {
	// Put inserts or replaces the chunk. Same id, same overwrite
	// semantics as the vector index.
	Put(ctx context.Context, chunk domain.Chunk) error

	// Get returns the chunk for the id.
	// Returns domain.ErrNotFound (wrapped) when absent.
	Get(ctx context.Context, id string) (domain.Chunk, error)

	// Close releases resources.
	Close() error
}
