package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avenhq/avenassist/internal/core/domain"
	"github.com/avenhq/avenassist/internal/core/ports/driven"
)

func TestRetriever_EmptyIndex(t *testing.T) {
	embedder := newFakeEmbedder(testDims)
	index := newFakeIndex(testDims)
	r := NewRetriever(embedder, index, newFakeChunkStore())

	matches, err := r.Retrieve(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestRetriever_NearestOfTwo(t *testing.T) {
	embedder := newFakeEmbedder(testDims)
	index := newFakeIndex(testDims)
	chunkStore := newFakeChunkStore()

	// Index two chunks with their own embeddings, then query with text
	// "A": its vector is identical to chunk A's, so chunk A must rank
	// first at top_k=1.
	for _, text := range []string{"A", "B"} {
		vec, err := embedder.Embed(context.Background(), text)
		require.NoError(t, err)
		id := "chunk-for-" + text
		require.NoError(t, index.Upsert(context.Background(), id, vec,
			driven.RecordMetadata{Preview: text}))
		require.NoError(t, chunkStore.Put(context.Background(), domain.Chunk{ID: id, Text: text}))
	}

	r := NewRetriever(embedder, index, chunkStore)

	matches, err := r.Retrieve(context.Background(), "A", 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "chunk-for-A", matches[0].ChunkID)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-6)
}

func TestRetriever_TopKPrefixProperty(t *testing.T) {
	embedder := newFakeEmbedder(testDims)
	index := newFakeIndex(testDims)
	chunkStore := newFakeChunkStore()

	for _, text := range []string{"alpha", "bravo", "charlie", "delta", "echo"} {
		vec, err := embedder.Embed(context.Background(), text)
		require.NoError(t, err)
		require.NoError(t, index.Upsert(context.Background(), "chunk-"+text, vec,
			driven.RecordMetadata{Preview: text}))
	}

	r := NewRetriever(embedder, index, chunkStore)

	three, err := r.Retrieve(context.Background(), "alpha", 3)
	require.NoError(t, err)
	five, err := r.Retrieve(context.Background(), "alpha", 5)
	require.NoError(t, err)

	require.Len(t, three, 3)
	require.Len(t, five, 5)
	for i := range three {
		assert.Equal(t, five[i].ChunkID, three[i].ChunkID,
			"top_k=3 must be a prefix of top_k=5")
	}
}

func TestRetriever_TopKLargerThanIndex(t *testing.T) {
	embedder := newFakeEmbedder(testDims)
	index := newFakeIndex(testDims)
	vec, _ := embedder.Embed(context.Background(), "only")
	require.NoError(t, index.Upsert(context.Background(), "chunk-0", vec, driven.RecordMetadata{}))

	r := NewRetriever(embedder, index, newFakeChunkStore())

	matches, err := r.Retrieve(context.Background(), "only", 50)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestRetriever_HydratesFullTextFromChunkStore(t *testing.T) {
	embedder := newFakeEmbedder(testDims)
	index := newFakeIndex(testDims)
	chunkStore := newFakeChunkStore()

	full := strings.Repeat("long answer text ", 40)
	vec, _ := embedder.Embed(context.Background(), full)
	chunk := domain.Chunk{ID: "chunk-0", Text: full, Section: "General"}
	require.NoError(t, index.Upsert(context.Background(), "chunk-0", vec,
		driven.RecordMetadata{Preview: chunk.Preview(), Section: "General"}))
	require.NoError(t, chunkStore.Put(context.Background(), chunk))

	r := NewRetriever(embedder, index, chunkStore)

	matches, err := r.Retrieve(context.Background(), "long answer", 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	// Full text, not the bounded preview.
	assert.Equal(t, full, matches[0].Text)
	assert.Greater(t, len(matches[0].Text), domain.PreviewLength)
	assert.Equal(t, "General", matches[0].Section)
}

func TestRetriever_FallsBackToPreview(t *testing.T) {
	embedder := newFakeEmbedder(testDims)
	index := newFakeIndex(testDims)

	vec, _ := embedder.Embed(context.Background(), "text")
	require.NoError(t, index.Upsert(context.Background(), "chunk-0", vec,
		driven.RecordMetadata{Preview: "preview text"}))

	// Chunk store has no entry for chunk-0.
	r := NewRetriever(embedder, index, newFakeChunkStore())

	matches, err := r.Retrieve(context.Background(), "text", 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "preview text", matches[0].Text)
}

func TestRetriever_QueryFailure(t *testing.T) {
	t.Run("surfaces by default", func(t *testing.T) {
		embedder := newFakeEmbedder(testDims)
		index := newFakeIndex(testDims)
		index.queryErr = errors.New("index offline")

		r := NewRetriever(embedder, index, newFakeChunkStore())

		_, err := r.Retrieve(context.Background(), "q", 5)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrVectorIndex)
	})

	t.Run("degrades when configured", func(t *testing.T) {
		embedder := newFakeEmbedder(testDims)
		index := newFakeIndex(testDims)
		index.queryErr = errors.New("index offline")

		r := NewRetriever(embedder, index, newFakeChunkStore())
		r.SetDegradeOnFailure(true)

		matches, err := r.Retrieve(context.Background(), "q", 5)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})
}

func TestRetriever_DefaultTopK(t *testing.T) {
	embedder := newFakeEmbedder(testDims)
	index := newFakeIndex(testDims)
	chunkStore := newFakeChunkStore()

	for _, text := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		vec, _ := embedder.Embed(context.Background(), text)
		require.NoError(t, index.Upsert(context.Background(), "chunk-"+text, vec, driven.RecordMetadata{}))
	}

	r := NewRetriever(embedder, index, chunkStore)

	matches, err := r.Retrieve(context.Background(), "a", 0)
	require.NoError(t, err)
	assert.Len(t, matches, domain.DefaultTopK)
}
