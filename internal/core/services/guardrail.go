package services

import (
	"regexp"
	"strings"
)

// GuardrailCategory classifies why a question was blocked.
type GuardrailCategory string

const (
	CategoryNone            GuardrailCategory = "none"
	CategoryPersonalData    GuardrailCategory = "personal_data"
	CategoryLegalAdvice     GuardrailCategory = "legal_advice"
	CategoryFinancialAdvice GuardrailCategory = "financial_advice"
)

// GuardrailResult is the outcome of screening one question.
type GuardrailResult struct {
	// Blocked reports whether the question may proceed to retrieval.
	Blocked bool

	// Category is the reason class when blocked.
	Category GuardrailCategory

	// Reason is a short human-readable explanation.
	Reason string

	// SuggestedResponse is shown to the user instead of an answer.
	SuggestedResponse string
}

// personalDataPatterns detect sensitive identifiers the user should
// never paste into a support chat.
var personalDataPatterns = []struct {
	pattern *regexp.Regexp
	kind    string
}{
	{regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`), "social security number"},
	{regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`), "credit card number"},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), "email address"},
	{regexp.MustCompile(`\b\d{3}[\s-]\d{3}[\s-]\d{4}\b`), "phone number"},
}

// Word boundaries matter here: "sue" must not match "issue".
var legalPattern = regexp.MustCompile(`\b(sue|suing|lawsuit|legal action|attorney|lawyer|litigation)\b`)

var financialKeywords = []string{
	"should i invest", "investment advice", "which stocks", "financial advice",
	"tax advice",
}

// Guardrail screens questions before they reach retrieval and
// generation. Blocked questions get a fixed suggested response and
// never trigger a billable model call.
type Guardrail struct{}

// NewGuardrail creates a new guardrail screen.
func NewGuardrail() *Guardrail {
	return &Guardrail{}
}

// Check screens a question. It never errors; an unscreenable question
// simply passes.
func (g *Guardrail) Check(question string) GuardrailResult {
	for _, p := range personalDataPatterns {
		if p.pattern.MatchString(question) {
			return GuardrailResult{
				Blocked:  true,
				Category: CategoryPersonalData,
				Reason:   "question contains a " + p.kind,
				SuggestedResponse: "For your security, please don't share personal information like " +
					"account, card or social security numbers here. Remove it and ask again.",
			}
		}
	}

	lower := strings.ToLower(question)

	if legalPattern.MatchString(lower) {
		return GuardrailResult{
			Blocked:  true,
			Category: CategoryLegalAdvice,
			Reason:   "question requests legal advice",
			SuggestedResponse: "I can't provide legal advice. For legal questions, please " +
				"consult a qualified attorney.",
		}
	}

	for _, kw := range financialKeywords {
		if strings.Contains(lower, kw) {
			return GuardrailResult{
				Blocked:  true,
				Category: CategoryFinancialAdvice,
				Reason:   "question requests financial advice",
				SuggestedResponse: "I can't provide personalised financial advice. Please speak " +
					"with a licensed financial adviser.",
			}
		}
	}

	return GuardrailResult{Category: CategoryNone}
}
