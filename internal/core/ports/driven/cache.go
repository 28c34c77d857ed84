package driven

import "github.com/loomworks/loom-cli/internal/core/domain"

// ConversationCache is a TTL-style mapping of conversation state keyed by
// (project, block, key). Writes to a given key are atomic; reads for
// different projects never interfere.
type ConversationCache interface {
	// SetBlock upserts an entry. The entry timestamp is taken from the
	// cache's clock at write time.
	SetBlock(projectID, block, key, value string)

	// GetBlock retrieves an entry. The second return is false on a miss;
	// a miss is a valid state, not an error.
	GetBlock(projectID, block, key string) (domain.CacheEntry, bool)

	// Invalidate removes entries and returns the count removed.
	// With a project ID, only that project's entries are removed; with an
	// empty project ID, all entries are removed.
	Invalidate(projectID string) int

	// Entries returns a project's entries ordered by (block, key),
	// for packaging into frames.
	Entries(projectID string) []domain.CacheEntry
}
