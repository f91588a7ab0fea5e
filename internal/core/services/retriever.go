package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/avenhq/avenassist/internal/core/domain"
	"github.com/avenhq/avenassist/internal/core/ports/driven"
	"github.com/avenhq/avenassist/internal/logger"
)

// Retriever embeds a query and fetches the top-K nearest chunks from
// the vector index, hydrating full text from the chunk store.
type Retriever struct {
	embedder   driven.EmbeddingService
	index      driven.VectorIndex
	chunkStore driven.ChunkStore

	// degrade turns a query failure into an empty retrieval instead of
	// an error. Off by default; set from configuration.
	degrade bool
}

// NewRetriever creates a new retriever.
func NewRetriever(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	chunkStore driven.ChunkStore,
) *Retriever {
	return &Retriever{
		embedder:   embedder,
		index:      index,
		chunkStore: chunkStore,
	}
}

// SetDegradeOnFailure makes index query failures degrade to an empty
// retrieval rather than surfacing to the caller.
func (r *Retriever) SetDegradeOnFailure(degrade bool) {
	r.degrade = degrade
}

// Retrieve returns up to topK matches ordered by descending similarity.
// An empty index yields an empty slice, never an error; topK larger
// than the index returns everything available.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]domain.Match, error) {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	logger.Debug("Retrieving top %d for query (%d chars)", topK, len(query))

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", domain.ErrEmbeddingService, err)
	}

	hits, err := r.index.Query(ctx, vector, topK)
	if err != nil {
		if r.degrade {
			logger.Warn("Index query failed, degrading to empty retrieval: %v", err)
			return []domain.Match{}, nil
		}
		return nil, fmt.Errorf("%w: query: %v", domain.ErrVectorIndex, err)
	}
	logger.Debug("Index returned %d matches", len(hits))

	matches := make([]domain.Match, 0, len(hits))
	for _, hit := range hits {
		matches = append(matches, r.hydrate(ctx, hit))
	}
	return matches, nil
}

// hydrate resolves a hit's grounding text: full text from the chunk
// store when the id is present, otherwise the bounded preview stored
// as index metadata.
func (r *Retriever) hydrate(ctx context.Context, hit driven.VectorMatch) domain.Match {
	match := domain.Match{
		ChunkID: hit.ID,
		Score:   hit.Score,
		Text:    hit.Metadata.Preview,
		Section: hit.Metadata.Section,
	}

	chunk, err := r.chunkStore.Get(ctx, hit.ID)
	switch {
	case err == nil:
		match.Text = chunk.Text
		if match.Section == "" {
			match.Section = chunk.Section
		}
	case errors.Is(err, domain.ErrNotFound):
		logger.Warn("Chunk %s missing from chunk store, using preview", hit.ID)
	default:
		logger.Warn("Chunk store read failed for %s, using preview: %v", hit.ID, err)
	}

	return match
}
