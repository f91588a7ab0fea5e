package driving

import (
	"context"
	"time"
)

// IndexOrchestrator coordinates chunking and embedding of the artefact
// into the vector index.
type IndexOrchestrator interface {
	// Index chunks the stored artefact, embeds each chunk and upserts
	// the records. Re-running over unchanged input is a pure overwrite.
	Index(ctx context.Context, opts IndexOptions) (*IndexReport, error)
}

// IndexOptions configures a single indexing run.
type IndexOptions struct {
	// OnlyIDs restricts the run to the listed chunk ids. Used to
	// resume a batch from its failed chunks instead of restarting.
	OnlyIDs []string
}

// ChunkFailure records one chunk that exhausted its retries.
type ChunkFailure struct {
	// ChunkID is the failing chunk.
	ChunkID string

	// Reason is the final error message.
	Reason string
}

// IndexReport summarises an indexing run for the user.
type IndexReport struct {
	// RunID uniquely identifies the run.
	RunID string

	// Succeeded are the chunk ids upserted successfully.
	Succeeded []string

	// Failed are the chunks that exhausted retries, in chunk order.
	Failed []ChunkFailure

	// Duration is the wall-clock time of the run.
	Duration time.Duration
}

// FailedIDs returns the ids of the failed chunks, for resume runs.
func (r *IndexReport) FailedIDs() []string {
	ids := make([]string, len(r.Failed))
	for i, f := range r.Failed {
		ids[i] = f.ChunkID
	}
	return ids
}
