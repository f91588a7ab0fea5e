package chunkers

import (
	"github.com/avenhq/avenassist/internal/chunkers/paragraph"
	"github.com/avenhq/avenassist/internal/chunkers/window"
	"github.com/avenhq/avenassist/internal/core/ports/driven"
)

// DefaultStrategy is used when configuration names no strategy.
const DefaultStrategy = "paragraph"

// RegisterDefaults registers all built-in strategies with the registry.
// Call this during application initialisation.
func RegisterDefaults(r *Registry) {
	r.Register("paragraph", buildParagraph)
	r.Register("window", buildWindow)
}

// buildParagraph creates the paragraph strategy. It takes no config.
func buildParagraph(_ map[string]any) (driven.ChunkStrategy, error) {
	return paragraph.New(), nil
}

// buildWindow creates a fixed-size window strategy from generic config.
// Supported config keys:
//   - chunk_size (int): Characters per chunk (default: 1000)
//   - overlap (int): Overlapping characters between chunks (default: 200)
func buildWindow(cfg map[string]any) (driven.ChunkStrategy, error) {
	var opts []window.Option

	if cfg != nil {
		if size := getIntFromConfig(cfg, "chunk_size"); size > 0 {
			opts = append(opts, window.WithChunkSize(size))
		}
		if overlap := getIntFromConfig(cfg, "overlap"); overlap >= 0 {
			opts = append(opts, window.WithOverlap(overlap))
		}
	}

	return window.New(opts...), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
