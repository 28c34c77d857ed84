package chromem

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabled(t *testing.T) {
	idx := New("", false)
	ctx := context.Background()

	assert.False(t, idx.Available())
	require.NoError(t, idx.Add(ctx, "c1", []float32{1, 0}))

	hits, err := idx.Search(ctx, []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestInMemory_AddSearch(t *testing.T) {
	idx := New("", true)
	ctx := context.Background()

	require.True(t, idx.Available())
	require.NoError(t, idx.Add(ctx, "exact", []float32{1, 0, 0}))
	require.NoError(t, idx.Add(ctx, "near", []float32{0.9, 0.1, 0}))
	require.NoError(t, idx.Add(ctx, "far", []float32{0, 0, 1}))

	hits, err := idx.Search(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "exact", hits[0].ChunkID)
	assert.Equal(t, "near", hits[1].ChunkID)
	assert.Greater(t, hits[0].Similarity, hits[1].Similarity)
}

func TestSearch_EmptyIndex(t *testing.T) {
	idx := New("", true)

	hits, err := idx.Search(context.Background(), []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearch_KClampedToCount(t *testing.T) {
	idx := New("", true)
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "only", []float32{1, 0}))

	hits, err := idx.Search(ctx, []float32{1, 0}, 50)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestDelete(t *testing.T) {
	idx := New("", true)
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "c1", []float32{1, 0}))
	require.NoError(t, idx.Delete(ctx, "c1"))

	hits, err := idx.Search(ctx, []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestPersistent_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first := New(dir, true)
	require.True(t, first.Available())
	require.NoError(t, first.Add(ctx, "kept", []float32{0, 1}))
	require.NoError(t, first.Close())

	second := New(dir, true)
	require.True(t, second.Available())

	hits, err := second.Search(ctx, []float32{0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "kept", hits[0].ChunkID)
}
