package driven

import "context"

// ContentSource fetches raw text for a source locator (typically a
// support page URL). Implementations wrap web-content APIs; the core
// never crawls or parses HTML itself.
//
// A fetch failure for one locator is skippable: callers log it and
// continue with the remaining locators rather than aborting the run.
type ContentSource interface {
	// Fetch returns the raw extracted text for the locator.
	// Returns domain.ErrSourceUnavailable (wrapped) when the source
	// cannot be fetched.
	Fetch(ctx context.Context, locator string) (string, error)

	// Close releases resources.
	Close() error
}
