package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/avenhq/avenassist/internal/core/domain"
	"github.com/avenhq/avenassist/internal/core/ports/driven"
	"github.com/avenhq/avenassist/internal/logger"
)

// ContextSeparator visually separates retrieved chunks inside the
// prompt's context block.
const ContextSeparator = "\n\n---\n\n"

// RefusalAnswer is returned under PolicyRefuse when retrieval found
// nothing to ground an answer on.
const RefusalAnswer = "I don't have enough information in the support documentation to answer that. " +
	"Please contact support directly."

// Answerer builds a grounded prompt from retrieved chunks and asks the
// generative model for the final answer.
type Answerer struct {
	llm    driven.LLMService
	policy domain.NoContextPolicy

	brand       string
	misspells   []string
	maxTokens   int
	temperature float64
}

// AnswererOption configures the answerer.
type AnswererOption func(*Answerer)

// WithBrand sets the brand name whose exact spelling the system prompt
// enforces, with the misspellings to forbid.
func WithBrand(name string, misspells ...string) AnswererOption {
	return func(a *Answerer) {
		a.brand = name
		a.misspells = misspells
	}
}

// WithGeneration sets token and temperature limits for the model call.
func WithGeneration(maxTokens int, temperature float64) AnswererOption {
	return func(a *Answerer) {
		if maxTokens > 0 {
			a.maxTokens = maxTokens
		}
		if temperature >= 0 {
			a.temperature = temperature
		}
	}
}

// NewAnswerer creates a new answerer with the given empty-retrieval
// policy.
func NewAnswerer(llm driven.LLMService, policy domain.NoContextPolicy, opts ...AnswererOption) *Answerer {
	a := &Answerer{
		llm:         llm,
		policy:      policy,
		brand:       "Aven",
		misspells:   []string{"Avon", "Avan"},
		maxTokens:   500,
		temperature: 0.7,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Answer synthesises an answer grounded on the matches, preserving
// their rank order in the context block. With no matches the behaviour
// follows the configured policy; a model failure is surfaced, never
// papered over with fabricated text.
func (a *Answerer) Answer(ctx context.Context, question string, matches []domain.Match) (*domain.Answer, error) {
	logger.Section("Synthesis")

	if len(matches) == 0 && a.policy == domain.PolicyRefuse {
		logger.Info("No context retrieved, refusing per policy")
		return &domain.Answer{
			Text:     RefusalAnswer,
			Grounded: false,
		}, nil
	}

	contextBlock := a.buildContext(matches)
	user := fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextBlock, question)

	text, err := a.llm.Complete(ctx, a.systemPrompt(), user, driven.GenerateOptions{
		MaxTokens:   a.maxTokens,
		Temperature: a.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}

	return &domain.Answer{
		Text:     text,
		Context:  matches,
		Grounded: len(matches) > 0,
	}, nil
}

// buildContext joins the retrieved texts in rank order, highest
// similarity first.
func (a *Answerer) buildContext(matches []domain.Match) string {
	texts := make([]string, len(matches))
	for i, m := range matches {
		texts[i] = m.Text
	}
	return strings.Join(texts, ContextSeparator)
}

// systemPrompt is the fixed grounding instruction. It constrains the
// model to the provided context and enforces the brand spelling.
func (a *Answerer) systemPrompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a helpful customer support assistant for %s. ", a.brand)
	b.WriteString("Answer based only on the provided context. ")
	b.WriteString("If the context doesn't contain enough information to answer the question, say so politely. ")
	fmt.Fprintf(&b, "Use \"we\" and \"our\" when referring to %s.", a.brand)
	if len(a.misspells) > 0 {
		fmt.Fprintf(&b, " CRITICAL: Always spell the company name as %q - never use %s or any other variation.",
			a.brand, quoteList(a.misspells))
	}
	return b.String()
}

// quoteList renders a list like `"Avon", "Avan"`.
func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}
