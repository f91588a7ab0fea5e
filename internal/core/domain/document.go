package domain

import "strings"

// QAPair is a single question with its accumulated answer body.
type QAPair struct {
	// Question is the question text without its list marker.
	Question string

	// Answer is the answer body with whitespace normalised.
	Answer string
}

// Section groups the Q&A pairs discovered under one heading.
type Section struct {
	// Name is the heading text without its marker.
	Name string

	// Pairs are the question/answer pairs in discovery order.
	Pairs []QAPair
}

// FAQDocument is the canonical representation of a support page after
// normalisation. Sections and pairs preserve discovery order, never
// alphabetical order. The document is immutable once produced.
type FAQDocument struct {
	// Title is the human-readable document title.
	Title string

	// Sections are the discovered sections in order.
	Sections []Section
}

// PairCount returns the total number of Q&A pairs across all sections.
func (d *FAQDocument) PairCount() int {
	n := 0
	for _, s := range d.Sections {
		n += len(s.Pairs)
	}
	return n
}

// Empty reports whether the document holds no Q&A pairs.
func (d *FAQDocument) Empty() bool {
	return d.PairCount() == 0
}

// Markdown serialises the document to its deterministic artefact form:
// one top-level title, then repeated section/question/answer blocks.
// The output doubles as the chunker's input format, so every block is
// separated by exactly one blank line.
func (d *FAQDocument) Markdown() string {
	var b strings.Builder

	b.WriteString("# ")
	b.WriteString(d.Title)
	b.WriteString("\n\n")

	for _, section := range d.Sections {
		b.WriteString("## ")
		b.WriteString(section.Name)
		b.WriteString("\n\n")

		for _, pair := range section.Pairs {
			b.WriteString("### ")
			b.WriteString(pair.Question)
			b.WriteString("\n")
			b.WriteString(pair.Answer)
			b.WriteString("\n\n")
		}
	}

	return b.String()
}
