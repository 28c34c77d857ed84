package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// This is an optional service - when nil, vector/semantic search is disabled.
//
// Note: This is separate from VectorIndex which stores and searches vectors.
// EmbeddingService generates vectors; VectorIndex stores them.
//
// The default implementation is a deterministic local feature-hash
// embedder seeded from configuration. Remote providers (OpenAI, Ollama)
// are external collaborators and can be slotted in behind this interface.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	// Identical text always yields the identical vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size.
	// This must match the VectorIndex configuration.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
