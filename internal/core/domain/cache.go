package domain

import "time"

// CacheEntry is one conversation cache record, keyed by
// (ProjectID, Block, Key). Entries are overwritten on set and removed
// by invalidation; the timestamp comes from the injected clock.
type CacheEntry struct {
	// ProjectID scopes the entry to a project. Entries for different
	// projects never interfere.
	ProjectID string

	// Block names the conversation block (e.g. "summary", "plan").
	Block string

	// Key is the entry key within the block.
	Key string

	// Value is the cached text.
	Value string

	// TS is the write time, taken from the clock at set time.
	TS time.Time
}
