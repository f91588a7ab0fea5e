package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfig indicates missing or inconsistent configuration
	// (absent credentials, index/embedding dimension mismatch, missing
	// index name). Fatal: detected before any billable external call.
	ErrConfig = errors.New("configuration error")

	// ErrSourceUnavailable indicates a content source could not be
	// fetched. Skippable: the run logs it and continues.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrEmbeddingService indicates an embedding call failed.
	// Retryable per chunk; exhausted retries are recorded per chunk id
	// rather than aborting the batch.
	ErrEmbeddingService = errors.New("embedding service error")

	// ErrVectorIndex indicates an upsert or query against the vector
	// index failed. Retryable; a query failure degrades to an empty
	// retrieval only when explicitly configured to degrade.
	ErrVectorIndex = errors.New("vector index error")

	// ErrGeneration indicates the generative model call failed.
	// Always surfaced to the caller, never replaced with a fabricated
	// answer.
	ErrGeneration = errors.New("generation service error")

	// ErrBlocked indicates a question was refused by the guardrail
	// screen before reaching retrieval.
	ErrBlocked = errors.New("question blocked by guardrail")
)
