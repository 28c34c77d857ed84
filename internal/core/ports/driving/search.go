package driving

import (
	"context"

	"github.com/loomworks/loom-cli/internal/core/domain"
)

// SearchService performs retrieval over the vault.
type SearchService interface {
	// Search runs a hybrid (lexical + vector) query and returns ranked
	// results. With the vector index disabled the ranking falls back to
	// the lexical score alone. Identical inputs over identical store
	// state always produce the identical ordered result list.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
