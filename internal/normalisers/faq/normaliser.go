// Package faq normalises raw scraped support-page text into a
// structured document of sectioned question/answer pairs.
package faq

import (
	"context"
	"regexp"
	"strings"

	"github.com/avenhq/avenassist/internal/core/domain"
	"github.com/avenhq/avenassist/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// DefaultSection is where questions found before any heading land.
const DefaultSection = "General"

var (
	headingMarker  = regexp.MustCompile(`^#+\s*`)
	blankRuns      = regexp.MustCompile(`\n{2,}`)
	horizontalRuns = regexp.MustCompile(`[ \t]+`)
)

// Normaliser parses raw page text into a FAQDocument.
//
// Structural markers: a heading line (one or more leading '#') starts a
// new section; a "- " line starts a new question; all other non-empty,
// non-noise lines accumulate as the current answer body. Noise lines
// (embedded images, iframes) are discarded before accumulation.
type Normaliser struct{}

// New creates a new FAQ normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Normalise parses the raw text. Zero discovered pairs is not an
// error; the caller decides whether an empty document is worth keeping.
func (n *Normaliser) Normalise(_ context.Context, title, raw string) (*domain.FAQDocument, error) {
	p := newParser(title)
	for _, line := range strings.Split(raw, "\n") {
		p.feed(line)
	}
	return p.finalize(), nil
}

// parser is the normalisation state machine. Pending state (current
// section, current question, answer buffer) is committed when the next
// marker arrives; finalize commits the last pending pair exactly once
// at end-of-input so a document ending mid-answer is never dropped.
type parser struct {
	doc          *domain.FAQDocument
	sectionIndex map[string]int

	section  string
	question string
	buffer   []string
}

func newParser(title string) *parser {
	return &parser{
		doc:          &domain.FAQDocument{Title: title},
		sectionIndex: make(map[string]int),
		section:      DefaultSection,
	}
}

func (p *parser) feed(line string) {
	line = strings.TrimSpace(line)

	switch {
	case headingMarker.MatchString(line):
		p.commit()
		p.section = strings.TrimSpace(headingMarker.ReplaceAllString(line, ""))
		p.question = ""

	case strings.HasPrefix(line, "- "):
		p.commit()
		p.question = strings.TrimSpace(strings.TrimPrefix(line, "- "))

	case line == "" || isNoise(line):
		// Blank and noise lines never reach the answer buffer.

	default:
		p.buffer = append(p.buffer, line)
	}
}

// finalize commits any pending pair and returns the document.
// Must be called exactly once, after the last line.
func (p *parser) finalize() *domain.FAQDocument {
	p.commit()
	return p.doc
}

// commit flushes the pending (question, answer) pair into the current
// section. Pairs without both a question and a body are discarded.
// Sections are created lazily on their first committed pair, in
// discovery order.
func (p *parser) commit() {
	defer func() { p.buffer = nil }()

	if p.question == "" || len(p.buffer) == 0 {
		return
	}

	pair := domain.QAPair{
		Question: p.question,
		Answer:   cleanAnswer(strings.Join(p.buffer, "\n")),
	}

	idx, ok := p.sectionIndex[p.section]
	if !ok {
		idx = len(p.doc.Sections)
		p.sectionIndex[p.section] = idx
		p.doc.Sections = append(p.doc.Sections, domain.Section{Name: p.section})
	}
	p.doc.Sections[idx].Pairs = append(p.doc.Sections[idx].Pairs, pair)
}

// isNoise reports lines that carry no text content: embedded images
// and iframes from the scraped page.
func isNoise(line string) bool {
	return strings.HasPrefix(line, "![](https://") || strings.Contains(line, "iframe")
}

// cleanAnswer collapses runs of blank lines to one blank line and runs
// of horizontal whitespace to a single space. Pure normalisation, no
// semantic loss.
func cleanAnswer(s string) string {
	s = blankRuns.ReplaceAllString(s, "\n\n")
	s = horizontalRuns.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
