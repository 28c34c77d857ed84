package local

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbed_Deterministic(t *testing.T) {
	s := New(32, 7)
	ctx := context.Background()

	first, err := s.Embed(ctx, "the quick brown fox")
	require.NoError(t, err)
	second, err := s.Embed(ctx, "the quick brown fox")
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical text and seed must yield identical vectors")
}

func TestEmbed_SeedChangesProjection(t *testing.T) {
	ctx := context.Background()

	a, err := New(32, 1).Embed(ctx, "the quick brown fox")
	require.NoError(t, err)
	b, err := New(32, 2).Embed(ctx, "the quick brown fox")
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "different seeds must yield different vectors")
}

func TestEmbed_UnitLength(t *testing.T) {
	s := New(16, 0)

	vec, err := s.Embed(context.Background(), "alpha beta gamma delta")
	require.NoError(t, err)
	require.Len(t, vec, 16)

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-6)
}

func TestEmbed_EmptyText(t *testing.T) {
	s := New(8, 0)

	vec, err := s.Embed(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, vec, 8)
	for _, v := range vec {
		assert.Zero(t, v)
	}
}

func TestEmbed_SimilarTextIsCloser(t *testing.T) {
	s := New(64, 42)
	ctx := context.Background()

	base, err := s.Embed(ctx, "beta gamma delta")
	require.NoError(t, err)
	overlap, err := s.Embed(ctx, "beta gamma epsilon")
	require.NoError(t, err)
	disjoint, err := s.Embed(ctx, "one two three")
	require.NoError(t, err)

	assert.Greater(t, dot(base, overlap), dot(base, disjoint))
}

func TestDefaults(t *testing.T) {
	s := New(0, 5)
	assert.Equal(t, DefaultDimensions, s.Dimensions())
	assert.Equal(t, "feature-hash-64-seed5", s.ModelName())
	assert.NoError(t, s.Close())
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
