package driving

import (
	"context"

	"github.com/avenhq/avenassist/internal/core/domain"
)

// Harvester fetches raw support content and normalises it into the
// FAQ artefact (the offline half of the batch path, before indexing).
type Harvester interface {
	// Harvest fetches each locator, normalises the first usable one
	// into a document and saves the artefact. Unfetchable locators are
	// skipped, not fatal; only a run with zero usable locators errors.
	Harvest(ctx context.Context, locators []string) (*domain.FAQDocument, error)
}
