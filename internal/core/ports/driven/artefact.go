package driven

import (
	"context"

	"github.com/avenhq/avenassist/internal/core/domain"
)

// ArtefactStore persists the normalised FAQ document as a plain
// structured text file. The file is both a human-readable artefact and
// the chunker's input format.
type ArtefactStore interface {
	// Save writes the document's deterministic markdown form.
	Save(ctx context.Context, doc *domain.FAQDocument) error

	// LoadMarkdown reads the serialised artefact back.
	// Returns domain.ErrNotFound (wrapped) when no artefact exists.
	LoadMarkdown(ctx context.Context) (string, error)

	// Path returns the artefact file path, used for watch mode.
	Path() string
}
