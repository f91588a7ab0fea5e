package chunkers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndBuild(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	assert.True(t, r.Has("paragraph"))
	assert.True(t, r.Has("window"))
	assert.False(t, r.Has("semantic"))
	assert.Len(t, r.Names(), 2)
}

func TestRegistry_BuildUnknown(t *testing.T) {
	r := NewRegistry()

	_, err := r.Build("nope", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown chunking strategy")
}

func TestRegistry_BuildParagraph(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	strategy, err := r.Build("paragraph", nil)
	require.NoError(t, err)
	assert.Equal(t, "paragraph", strategy.Name())
}

func TestRegistry_BuildWindowWithConfig(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	strategy, err := r.Build("window", map[string]any{
		"chunk_size": int64(40), // TOML integers arrive as int64
		"overlap":    int64(10),
	})
	require.NoError(t, err)
	require.Equal(t, "window", strategy.Name())

	chunks, err := strategy.Split(context.Background(), "0123456789012345678901234567890123456789012345678901234567890")
	require.NoError(t, err)
	assert.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c.Text), 40)
	}
}
