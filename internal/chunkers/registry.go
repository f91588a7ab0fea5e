// Package chunkers provides pluggable document chunking strategies.
package chunkers

import (
	"fmt"

	"github.com/avenhq/avenassist/internal/core/ports/driven"
)

// BuilderFunc creates a ChunkStrategy from generic config.
// Config is a map of strategy-specific settings parsed from user config.
type BuilderFunc func(cfg map[string]any) (driven.ChunkStrategy, error)

// Registry maps strategy names to their builders.
// It allows swapping the chunking policy from configuration without
// touching indexing logic.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry creates a new strategy registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]BuilderFunc),
	}
}

// Register adds a strategy builder to the registry.
// Name should be unique and match the strategy's Name() return value.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build creates a strategy by name with the given config.
// Returns error if the strategy name is not registered.
func (r *Registry) Build(name string, cfg map[string]any) (driven.ChunkStrategy, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown chunking strategy: %s", name)
	}
	return builder(cfg)
}

// Has returns true if a strategy with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns all registered strategy names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	return names
}
