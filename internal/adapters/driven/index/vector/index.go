// Package vector provides an in-memory brute-force cosine similarity
// index. Exhaustive scan keeps ranking exactly deterministic; the
// approximate-nearest-neighbour shortcut is deliberately avoided here.
package vector

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/loomworks/loom-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index holds chunk vectors in memory.
//
// A disabled index is a valid state, not an error: Add is a no-op that
// allocates nothing, Search returns an empty list and Available reports
// false. Disabling only removes a scoring signal.
type Index struct {
	enabled bool

	mu      sync.RWMutex
	vectors map[string][]float32
}

// New creates a vector index. When enabled is false the index stores
// nothing and participates in no ranking.
func New(enabled bool) *Index {
	idx := &Index{enabled: enabled}
	if enabled {
		idx.vectors = make(map[string][]float32)
	}
	return idx
}

// Add inserts a vector for the given chunk ID. No-op when disabled.
func (idx *Index) Add(_ context.Context, chunkID string, embedding []float32) error {
	if !idx.enabled {
		return nil
	}

	stored := make([]float32, len(embedding))
	copy(stored, embedding)

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.vectors[chunkID] = stored
	return nil
}

// Delete removes a vector from the index.
func (idx *Index) Delete(_ context.Context, chunkID string) error {
	if !idx.enabled {
		return nil
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.vectors, chunkID)
	return nil
}

// Search finds the k most similar vectors by exhaustive cosine scan.
// Results order by similarity descending, then chunk ID ascending.
func (idx *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if !idx.enabled || k <= 0 {
		return []driven.VectorHit{}, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	hits := make([]driven.VectorHit, 0, len(idx.vectors))
	for chunkID, vec := range idx.vectors {
		hits = append(hits, driven.VectorHit{
			ChunkID:    chunkID,
			Similarity: Cosine(query, vec),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Available reports whether the index is enabled.
func (idx *Index) Available() bool {
	return idx.enabled
}

// Close releases resources.
func (idx *Index) Close() error {
	return nil
}

// Cosine returns the cosine similarity of two vectors. Mismatched
// lengths or zero vectors score zero.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
