package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/avenhq/avenassist/internal/core/domain"
	"github.com/avenhq/avenassist/internal/core/ports/driven"
	"github.com/avenhq/avenassist/internal/core/ports/driving"
	"github.com/avenhq/avenassist/internal/logger"
)

// Ensure HarvestService implements the interface.
var _ driving.Harvester = (*HarvestService)(nil)

// MinContentLength is the shortest fetched text worth normalising.
// Shorter payloads are JavaScript walls or error pages, not content.
const MinContentLength = 300

// HarvestService fetches raw support content, normalises it and saves
// the markdown artefact.
type HarvestService struct {
	source     driven.ContentSource
	normaliser driven.Normaliser
	artefacts  driven.ArtefactStore
	title      string
}

// NewHarvestService creates a new harvest service. Title becomes the
// artefact's top-level heading.
func NewHarvestService(
	source driven.ContentSource,
	normaliser driven.Normaliser,
	artefacts driven.ArtefactStore,
	title string,
) *HarvestService {
	return &HarvestService{
		source:     source,
		normaliser: normaliser,
		artefacts:  artefacts,
		title:      title,
	}
}

// Harvest fetches each locator in order and normalises the first one
// that yields a usable document. Unfetchable or unusable locators are
// skipped with a log line; the run only fails when no locator was
// usable at all.
func (s *HarvestService) Harvest(ctx context.Context, locators []string) (*domain.FAQDocument, error) {
	logger.Section("Harvest")

	if len(locators) == 0 {
		return nil, fmt.Errorf("%w: no source locators", domain.ErrInvalidInput)
	}

	for _, locator := range locators {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := s.source.Fetch(ctx, locator)
		if err != nil {
			logger.Error("Skipping source %s: %v", locator, err)
			continue
		}

		if !usable(text) {
			logger.Warn("Skipping source %s: content too short or blocked", locator)
			continue
		}

		doc, err := s.normaliser.Normalise(ctx, s.title, text)
		if err != nil {
			return nil, fmt.Errorf("normalise %s: %w", locator, err)
		}

		if doc.Empty() {
			logger.Warn("Skipping source %s: no Q&A pairs discovered", locator)
			continue
		}

		if err := s.artefacts.Save(ctx, doc); err != nil {
			return nil, fmt.Errorf("save artefact: %w", err)
		}

		logger.Info("Harvested %d pairs across %d sections from %s",
			doc.PairCount(), len(doc.Sections), locator)
		return doc, nil
	}

	return nil, fmt.Errorf("%w: no usable source among %d locators",
		domain.ErrSourceUnavailable, len(locators))
}

// usable applies the original skip rule: content must be non-trivial
// and not a JavaScript wall.
func usable(text string) bool {
	return len(text) > MinContentLength && !strings.Contains(text, "JavaScript")
}
