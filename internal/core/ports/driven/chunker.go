package driven

import (
	"context"

	"github.com/avenhq/avenassist/internal/core/domain"
)

// ChunkStrategy splits serialised document text into retrieval-sized
// chunks. Strategies are pluggable: paragraph splitting is the default
// policy, alternates (fixed-size window, section-based) can be swapped
// without touching indexing logic.
//
// Determinism contract: identical input text always produces the same
// ordered sequence of (id, text) pairs. Blank fragments are dropped and
// must not consume an id slot.
type ChunkStrategy interface {
	// Name returns the strategy name for logging and configuration.
	Name() string

	// Split produces the ordered chunk sequence for the text.
	Split(ctx context.Context, text string) ([]domain.Chunk, error)
}
