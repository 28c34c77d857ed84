package driven

import "context"

// VectorIndex provides semantic similarity search operations.
// The index can be disabled by configuration: a disabled index reports
// Available() == false, accepts Add as a no-op without error, and
// returns an empty result from Search. Enabling or disabling the index
// never touches the object store or the lexical index.
type VectorIndex interface {
	// Add inserts a vector for the given chunk ID.
	// No-op when the index is disabled.
	Add(ctx context.Context, chunkID string, embedding []float32) error

	// Delete removes a vector from the index.
	Delete(ctx context.Context, chunkID string) error

	// Search finds the k nearest neighbours to the query vector.
	// Returns an empty list when the index is disabled.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Available reports whether the index is enabled and usable.
	Available() bool

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Similarity is the cosine similarity score (0-1).
	Similarity float64
}
