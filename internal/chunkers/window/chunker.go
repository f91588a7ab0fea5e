// Package window provides a fixed-size sliding window chunking strategy.
package window

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/avenhq/avenassist/internal/core/domain"
	"github.com/avenhq/avenassist/internal/core/ports/driven"
)

// Ensure Strategy implements the interface.
var _ driven.ChunkStrategy = (*Strategy)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = 200

// Strategy splits text into fixed-size windows with overlap.
// IDs are content-addressed (hash of offset and text) so unchanged
// input reproduces identical ids.
type Strategy struct {
	chunkSize int
	overlap   int
}

// Option configures the window strategy.
type Option func(*Strategy)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Strategy) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Strategy) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a new window strategy with the given options.
func New(opts ...Option) *Strategy {
	s := &Strategy{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't exceed chunk size
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// Name returns the strategy name.
func (s *Strategy) Name() string {
	return "window"
}

// Split produces overlapping fixed-size chunks in document order.
// Whitespace-only windows are skipped without consuming an id slot.
func (s *Strategy) Split(_ context.Context, text string) ([]domain.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	textLen := len(text)
	estimated := (textLen / (s.chunkSize - s.overlap)) + 1
	chunks := make([]domain.Chunk, 0, estimated)

	position := 0
	for start := 0; start < textLen; start += s.chunkSize - s.overlap {
		end := start + s.chunkSize
		if end > textLen {
			end = textLen
		}

		window := text[start:end]
		if strings.TrimSpace(window) == "" {
			continue
		}

		chunks = append(chunks, domain.Chunk{
			ID:       chunkID(start, window),
			Text:     window,
			Position: position,
		})
		position++
	}

	return chunks, nil
}

// chunkID derives a deterministic id from the window's byte offset and
// content.
func chunkID(offset int, text string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d:%s", offset, text)))
	return "chunk-" + hex.EncodeToString(sum[:])[:16]
}
