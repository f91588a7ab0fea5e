package driving

import (
	"context"

	"github.com/avenhq/avenassist/internal/core/domain"
)

// AskService answers a question grounded in retrieved context
// (the online query path: retrieve, then synthesise).
type AskService interface {
	// Ask retrieves the most relevant chunks for the question and
	// synthesises a grounded answer.
	Ask(ctx context.Context, question string, opts AskOptions) (*domain.Answer, error)
}

// AskOptions configures a single question.
type AskOptions struct {
	// TopK is the number of chunks to retrieve (default domain.DefaultTopK).
	TopK int
}
