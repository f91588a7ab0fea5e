// Package domain defines the core business entities for the support pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - FAQDocument: A normalised support document of sectioned Q&A pairs
//   - Chunk: A retrieval-sized unit of document text
//   - Match: A scored retrieval hit from the vector index
//   - Answer: A synthesised answer with its grounding context
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
