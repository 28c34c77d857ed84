// Package local provides a deterministic feature-hash embedding service.
//
// Remote embedding providers are external collaborators; this local
// embedder keeps vector search usable offline and fully reproducible.
// Each token hashes (FNV-1a, mixed with the configured seed) to one
// dimension and a sign, counts accumulate, and the vector is normalised
// to unit length. Identical text and seed always yield the identical
// vector; changing the seed changes the projection, which is the only
// randomised component of ranking.
package local

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"

	"github.com/loomworks/loom-cli/internal/adapters/driven/index/lexical"
	"github.com/loomworks/loom-cli/internal/core/ports/driven"
)

// DefaultDimensions is the default vector size.
const DefaultDimensions = 64

// Ensure Service implements the interface.
var _ driven.EmbeddingService = (*Service)(nil)

// Service generates seeded feature-hash embeddings.
type Service struct {
	dims int
	seed int64
}

// New creates an embedder with the given vector size and seed.
// A non-positive size falls back to DefaultDimensions.
func New(dims int, seed int64) *Service {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &Service{dims: dims, seed: seed}
}

// Embed generates the embedding for the given text.
func (s *Service) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, s.dims)

	for _, token := range lexical.Tokenize(text) {
		h := fnv.New64a()
		fmt.Fprintf(h, "%d:", s.seed)
		h.Write([]byte(token))
		sum := h.Sum64()

		dim := int(sum % uint64(s.dims))
		if sum&(1<<63) != 0 {
			vec[dim]--
		} else {
			vec[dim]++
		}
	}

	normalise(vec)
	return vec, nil
}

// Dimensions returns the vector size.
func (s *Service) Dimensions() int {
	return s.dims
}

// ModelName returns the embedder identity, including the seed since the
// seed changes the vector space.
func (s *Service) ModelName() string {
	return fmt.Sprintf("feature-hash-%d-seed%d", s.dims, s.seed)
}

// Close releases resources.
func (s *Service) Close() error {
	return nil
}

// normalise scales the vector to unit length. The zero vector (empty
// text) is left as-is.
func normalise(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
}
