// Package paragraph provides the default blank-line chunking strategy.
package paragraph

import (
	"context"
	"fmt"
	"strings"

	"github.com/avenhq/avenassist/internal/core/domain"
	"github.com/avenhq/avenassist/internal/core/ports/driven"
)

// Ensure Strategy implements the interface.
var _ driven.ChunkStrategy = (*Strategy)(nil)

// Strategy splits text on paragraph boundaries: a blank line is the
// delimiter. Each non-blank paragraph becomes exactly one chunk.
//
// IDs are assigned from the chunk's position in the filtered sequence,
// so blank fragments never consume an id slot and re-runs over
// unchanged input reproduce identical ids.
type Strategy struct{}

// New creates the paragraph strategy.
func New() *Strategy {
	return &Strategy{}
}

// Name returns the strategy name.
func (s *Strategy) Name() string {
	return "paragraph"
}

// Split produces one chunk per non-blank paragraph, in document order.
// The current "## " heading is tracked and recorded as each chunk's
// section; heading paragraphs themselves are chunks too, carrying the
// section they introduce.
func (s *Strategy) Split(_ context.Context, text string) ([]domain.Chunk, error) {
	paragraphs := strings.Split(text, "\n\n")
	chunks := make([]domain.Chunk, 0, len(paragraphs))

	section := ""
	position := 0

	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		if name, ok := sectionHeading(p); ok {
			section = name
		}

		chunks = append(chunks, domain.Chunk{
			ID:       fmt.Sprintf("chunk-%d", position),
			Text:     p,
			Section:  section,
			Position: position,
		})
		position++
	}

	return chunks, nil
}

// sectionHeading reports whether the paragraph is a "## " section
// heading and returns the heading text.
func sectionHeading(p string) (string, bool) {
	if !strings.HasPrefix(p, "## ") {
		return "", false
	}
	// Only single-line paragraphs are headings.
	if strings.Contains(p, "\n") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(p, "## ")), true
}
