package domain

import "fmt"

// NoContextPolicy controls what the answer synthesiser does when
// retrieval returns no matches.
type NoContextPolicy string

const (
	// PolicyRefuse returns a fixed "not enough information" answer
	// without invoking the generative model.
	PolicyRefuse NoContextPolicy = "refuse"

	// PolicyEmptyContext invokes the generative model with an empty
	// context block.
	PolicyEmptyContext NoContextPolicy = "empty-context"
)

// ParseNoContextPolicy validates a policy string from configuration.
func ParseNoContextPolicy(s string) (NoContextPolicy, error) {
	switch NoContextPolicy(s) {
	case PolicyRefuse, PolicyEmptyContext:
		return NoContextPolicy(s), nil
	case "":
		return PolicyRefuse, nil
	default:
		return "", fmt.Errorf("%w: unknown no-context policy %q", ErrInvalidInput, s)
	}
}
