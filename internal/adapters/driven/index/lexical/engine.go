// Package lexical provides an in-memory term-frequency search engine.
//
// Ranking is deterministic by construction: scores are rational
// term-frequency ratios, candidates are sorted by score descending and
// ties break by ascending chunk ID, never by map iteration order.
package lexical

import (
	"context"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/loomworks/loom-cli/internal/core/domain"
	"github.com/loomworks/loom-cli/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.SearchEngine = (*Engine)(nil)

// Engine indexes chunk content into an inverted term index.
type Engine struct {
	mu sync.RWMutex

	// postings maps a term to the chunks containing it with occurrence counts.
	postings map[string]map[string]int

	// lengths holds the token count per chunk for score normalisation.
	lengths map[string]int
}

// New creates an empty lexical engine.
func New() *Engine {
	return &Engine{
		postings: make(map[string]map[string]int),
		lengths:  make(map[string]int),
	}
}

// Index adds or updates a chunk in the index.
func (e *Engine) Index(_ context.Context, chunk domain.Chunk) error {
	terms := Tokenize(chunk.Content)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.removeLocked(chunk.ID)

	e.lengths[chunk.ID] = len(terms)
	for _, term := range terms {
		if e.postings[term] == nil {
			e.postings[term] = make(map[string]int)
		}
		e.postings[term][chunk.ID]++
	}
	return nil
}

// Delete removes a chunk from the index.
func (e *Engine) Delete(_ context.Context, chunkID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.removeLocked(chunkID)
	return nil
}

// Search scores chunks by query term frequency, normalised by chunk
// length. Results are ordered by score descending, then chunk ID
// ascending.
func (e *Engine) Search(_ context.Context, query string, limit int) ([]driven.SearchHit, error) {
	terms := Tokenize(query)
	if len(terms) == 0 || limit <= 0 {
		return []driven.SearchHit{}, nil
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	matched := make(map[string]int)
	for _, term := range terms {
		for chunkID, count := range e.postings[term] {
			matched[chunkID] += count
		}
	}

	hits := make([]driven.SearchHit, 0, len(matched))
	for chunkID, count := range matched {
		length := e.lengths[chunkID]
		if length == 0 {
			continue
		}
		hits = append(hits, driven.SearchHit{
			ChunkID: chunkID,
			Score:   float64(count) / float64(length),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Close releases resources.
func (e *Engine) Close() error {
	return nil
}

// removeLocked drops all postings for a chunk. Caller holds the write lock.
func (e *Engine) removeLocked(chunkID string) {
	if _, ok := e.lengths[chunkID]; !ok {
		return
	}
	delete(e.lengths, chunkID)
	for term, chunks := range e.postings {
		delete(chunks, chunkID)
		if len(chunks) == 0 {
			delete(e.postings, term)
		}
	}
}

// Tokenize lowercases text and splits it on non-alphanumeric runes.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
