package domain

// PreviewLength is the maximum length of the text preview stored as
// vector index metadata. The preview exists for debugging and display;
// answer synthesis reads the full chunk text from the chunk store.
const PreviewLength = 300

// Chunk is a retrieval-sized unit of text derived from a document.
//
// IDs are deterministic: re-chunking unchanged input reproduces the
// same (id, text) sequence, which is what makes re-indexing a pure
// overwrite rather than an accumulation.
type Chunk struct {
	// ID is the deterministic identifier, derived from the chunk's
	// position in the filtered (non-blank) sequence or from a content
	// hash, depending on the chunking strategy.
	ID string

	// Text is the chunk content. Always non-empty after trimming;
	// blank fragments are dropped before they reach the indexer.
	Text string

	// Section is the heading the chunk was found under, when known.
	Section string

	// Position is the ordinal position within the filtered sequence.
	Position int
}

// Preview returns the bounded metadata preview of the chunk text.
func (c Chunk) Preview() string {
	if len(c.Text) <= PreviewLength {
		return c.Text
	}
	return c.Text[:PreviewLength]
}
