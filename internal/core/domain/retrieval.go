package domain

// Match is a single scored hit from the vector index, ranked by
// descending similarity. Matches are produced fresh per query and
// never persisted.
type Match struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Score is the similarity score reported by the index (cosine,
	// higher is more similar).
	Score float64

	// Text is the chunk text used for grounding. Hydrated from the
	// chunk store when available, otherwise the stored preview.
	Text string

	// Section is the heading metadata stored alongside the vector.
	Section string
}

// Answer is a synthesised natural-language answer together with the
// context it was grounded on, kept for auditability.
type Answer struct {
	// Text is the model output, or the fixed refusal text when the
	// no-context policy declined to call the model.
	Text string

	// Context are the matches the answer was grounded on, in rank order.
	Context []Match

	// Grounded is false when the answer was produced without any
	// retrieved context.
	Grounded bool
}

// DefaultTopK is the number of matches retrieved per query unless
// overridden.
const DefaultTopK = 5
