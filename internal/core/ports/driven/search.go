package driven

import (
	"context"

	"github.com/loomworks/loom-cli/internal/core/domain"
)

// SearchEngine provides lexical search operations over chunks.
// Implementations must rank deterministically: identical index state and
// query always produce the identical ordered hit list, with score ties
// broken by ascending chunk ID.
type SearchEngine interface {
	// Index adds or updates a chunk in the search index.
	Index(ctx context.Context, chunk domain.Chunk) error

	// Delete removes a chunk from the search index.
	Delete(ctx context.Context, chunkID string) error

	// Search performs a lexical search and returns matching chunk IDs
	// with scores, ordered by score descending then chunk ID ascending.
	Search(ctx context.Context, query string, limit int) ([]SearchHit, error)

	// Close releases resources.
	Close() error
}

// SearchHit represents a search result from the engine.
type SearchHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Score is the relevance score.
	Score float64
}
