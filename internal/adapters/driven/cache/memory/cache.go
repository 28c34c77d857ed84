// Package memory provides the in-memory conversation cache.
//
// The cache is an explicit, constructible object owned by the
// orchestrator, never a process-wide singleton. Entries are keyed by
// (project, block, key); projects are fully isolated from one another.
package memory

import (
	"sort"
	"sync"

	"github.com/loomworks/loom-cli/internal/core/domain"
	"github.com/loomworks/loom-cli/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.ConversationCache = (*Cache)(nil)

type blockKey struct {
	block string
	key   string
}

// Cache is an in-memory conversation cache with an injectable clock.
type Cache struct {
	clock driven.Clock

	mu       sync.RWMutex
	projects map[string]map[blockKey]domain.CacheEntry
}

// New creates an empty cache. Timestamps come from the given clock so
// tests can pin time without touching global state.
func New(clk driven.Clock) *Cache {
	return &Cache{
		clock:    clk,
		projects: make(map[string]map[blockKey]domain.CacheEntry),
	}
}

// SetBlock upserts an entry with the clock's current time.
func (c *Cache) SetBlock(projectID, block, key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, ok := c.projects[projectID]
	if !ok {
		entries = make(map[blockKey]domain.CacheEntry)
		c.projects[projectID] = entries
	}

	entries[blockKey{block: block, key: key}] = domain.CacheEntry{
		ProjectID: projectID,
		Block:     block,
		Key:       key,
		Value:     value,
		TS:        c.clock.Now(),
	}
}

// GetBlock retrieves an entry. A miss is a valid state, not an error.
func (c *Cache) GetBlock(projectID, block, key string) (domain.CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries, ok := c.projects[projectID]
	if !ok {
		return domain.CacheEntry{}, false
	}
	entry, ok := entries[blockKey{block: block, key: key}]
	return entry, ok
}

// Invalidate removes entries and returns the count removed. With a
// project ID only that project's entries go; with an empty project ID
// everything goes.
func (c *Cache) Invalidate(projectID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if projectID != "" {
		removed := len(c.projects[projectID])
		delete(c.projects, projectID)
		return removed
	}

	removed := 0
	for _, entries := range c.projects {
		removed += len(entries)
	}
	c.projects = make(map[string]map[blockKey]domain.CacheEntry)
	return removed
}

// Entries returns a project's entries ordered by (block, key).
func (c *Cache) Entries(projectID string) []domain.CacheEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := c.projects[projectID]
	out := make([]domain.CacheEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Block != out[j].Block {
			return out[i].Block < out[j].Block
		}
		return out[i].Key < out[j].Key
	})
	return out
}
