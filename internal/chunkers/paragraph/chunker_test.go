package paragraph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrategy_Name(t *testing.T) {
	assert.Equal(t, "paragraph", New().Name())
}

func TestSplit_EmptyText(t *testing.T) {
	s := New()

	chunks, err := s.Split(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestSplit_BlankFragmentsSkipped(t *testing.T) {
	s := New()

	// Double blank lines produce empty fragments that must not
	// consume id slots.
	text := "first\n\n\n\nsecond\n\n   \n\nthird"
	chunks, err := s.Split(context.Background(), text)
	require.NoError(t, err)

	require.Len(t, chunks, 3)
	for i, want := range []string{"chunk-0", "chunk-1", "chunk-2"} {
		assert.Equal(t, want, chunks[i].ID)
	}
}

func TestSplit_Deterministic(t *testing.T) {
	s := New()
	text := "# Title\n\n## General\n\n### What is X?\nX is Y.\n\n"

	first, err := s.Split(context.Background(), text)
	require.NoError(t, err)
	second, err := s.Split(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSplit_SectionTracking(t *testing.T) {
	s := New()
	text := "# Title\n\n## General\n\n### What is X?\nX is Y.\n\n## Payments\n\n### How do I pay?\nAutopay.\n\n"

	chunks, err := s.Split(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, chunks, 5)

	// Title has no section yet.
	assert.Empty(t, chunks[0].Section)
	// Heading chunk carries the section it introduces.
	assert.Equal(t, "General", chunks[1].Section)
	assert.Equal(t, "General", chunks[2].Section)
	assert.Equal(t, "Payments", chunks[4].Section)
}

func TestSplit_ChunkOrderMatchesDocumentOrder(t *testing.T) {
	s := New()
	text := "alpha\n\nbravo\n\ncharlie"

	chunks, err := s.Split(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	for i, want := range []string{"alpha", "bravo", "charlie"} {
		assert.Equal(t, want, chunks[i].Text)
		assert.Equal(t, i, chunks[i].Position)
	}
}
