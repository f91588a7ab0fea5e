package driven

import (
	"context"

	"github.com/avenhq/avenassist/internal/core/domain"
)

// Normaliser transforms raw scraped page text into a structured
// FAQDocument. Discovering zero Q&A pairs is not an error; callers
// decide whether an empty document is worth persisting.
type Normaliser interface {
	// Normalise parses the raw text into sectioned Q&A pairs.
	Normalise(ctx context.Context, title, raw string) (*domain.FAQDocument, error)
}
