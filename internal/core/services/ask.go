package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/avenhq/avenassist/internal/core/domain"
	"github.com/avenhq/avenassist/internal/core/ports/driving"
	"github.com/avenhq/avenassist/internal/logger"
)

// Ensure AskService implements the interface.
var _ driving.AskService = (*AskService)(nil)

// AskService is the online query path: guardrail screen, retrieval,
// then grounded synthesis. Each call is a single synchronous sequence;
// concurrent questions share only the read-mostly vector index.
type AskService struct {
	guardrail *Guardrail
	retriever *Retriever
	answerer  *Answerer
}

// NewAskService creates a new ask service. The guardrail is optional;
// when nil, questions go straight to retrieval.
func NewAskService(guardrail *Guardrail, retriever *Retriever, answerer *Answerer) *AskService {
	return &AskService{
		guardrail: guardrail,
		retriever: retriever,
		answerer:  answerer,
	}
}

// Ask answers a question grounded in retrieved context. The result is
// always either an answer or a clear failure, never a blank response.
func (s *AskService) Ask(ctx context.Context, question string, opts driving.AskOptions) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	if s.guardrail != nil {
		if result := s.guardrail.Check(question); result.Blocked {
			logger.Info("Question blocked: %s (%s)", result.Reason, result.Category)
			return &domain.Answer{
				Text:     result.SuggestedResponse,
				Grounded: false,
			}, nil
		}
	}

	matches, err := s.retriever.Retrieve(ctx, question, opts.TopK)
	if err != nil {
		return nil, err
	}

	return s.answerer.Answer(ctx, question, matches)
}
