// Package chromem provides a persistent vector index backed by the
// embedded chromem-go database.
//
// The index is an optional scoring signal. Any failure to open or use
// the underlying database degrades silently to disabled behaviour
// instead of surfacing as a user-visible error.
package chromem

import (
	"context"
	"errors"
	"sort"

	chromemgo "github.com/philippgille/chromem-go"

	"github.com/loomworks/loom-cli/internal/core/ports/driven"
	"github.com/loomworks/loom-cli/internal/logger"
)

const collectionName = "chunks"

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index stores chunk vectors in a chromem-go collection.
type Index struct {
	enabled    bool
	collection *chromemgo.Collection
}

// New creates a vector index persisted under dir. An empty dir keeps the
// index purely in memory. When enabled is false, or the database cannot
// be opened, the returned index is disabled and every operation is a
// silent no-op.
func New(dir string, enabled bool) *Index {
	if !enabled {
		return &Index{}
	}

	var db *chromemgo.DB
	var err error
	if dir == "" {
		db = chromemgo.NewDB()
	} else {
		db, err = chromemgo.NewPersistentDB(dir, false)
		if err != nil {
			logger.Warn("Vector index unavailable: %v (continuing without embeddings)", err)
			return &Index{}
		}
	}

	// Vectors always arrive precomputed; the embedding func must never run.
	collection, err := db.GetOrCreateCollection(collectionName, nil, rejectImplicitEmbedding)
	if err != nil {
		logger.Warn("Vector index unavailable: %v (continuing without embeddings)", err)
		return &Index{}
	}

	return &Index{enabled: true, collection: collection}
}

// Add inserts a vector for the given chunk ID. No-op when disabled.
func (idx *Index) Add(ctx context.Context, chunkID string, embedding []float32) error {
	if !idx.enabled {
		return nil
	}
	return idx.collection.AddDocument(ctx, chromemgo.Document{
		ID:        chunkID,
		Embedding: embedding,
	})
}

// Delete removes a vector from the index.
func (idx *Index) Delete(ctx context.Context, chunkID string) error {
	if !idx.enabled {
		return nil
	}
	return idx.collection.Delete(ctx, nil, nil, chunkID)
}

// Search finds the k nearest neighbours. chromem's exhaustive scan makes
// the similarity values deterministic; ties are re-sorted here by
// ascending chunk ID so the result order is deterministic too.
func (idx *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if !idx.enabled || k <= 0 {
		return []driven.VectorHit{}, nil
	}

	count := idx.collection.Count()
	if count == 0 {
		return []driven.VectorHit{}, nil
	}
	if k > count {
		k = count
	}

	results, err := idx.collection.QueryEmbedding(ctx, query, k, nil, nil)
	if err != nil {
		return nil, err
	}

	hits := make([]driven.VectorHit, len(results))
	for i, r := range results {
		hits[i] = driven.VectorHit{
			ChunkID:    r.ID,
			Similarity: float64(r.Similarity),
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})

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

func rejectImplicitEmbedding(context.Context, string) ([]float32, error) {
	return nil, errors.New("chromem index: implicit embedding not supported, vectors must be precomputed")
}
