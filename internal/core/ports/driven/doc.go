// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports).
//
// Every external collaborator of the pipeline is modelled here as a
// narrow interface so the core services can be wired with test doubles:
//
//   - ContentSource: fetches raw support page text
//   - EmbeddingService: turns text into vectors
//   - VectorIndex: stores and searches vectors
//   - LLMService: generates the final answer
//   - ChunkStore: full-text side channel keyed by chunk id
//   - ArtefactStore: the normalised markdown document on disk
package driven
