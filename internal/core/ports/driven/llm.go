package driven

import "context"

// LLMService generates natural-language answers.
//
// Implementations may include:
//   - OpenAI (gpt-4o-mini, gpt-3.5-turbo)
//   - Any chat-completions compatible API
type LLMService interface {
	// Complete sends a system instruction and a user turn and returns
	// the model output unmodified. A service failure is returned as an
	// error, never substituted with fabricated text.
	Complete(ctx context.Context, system, user string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
