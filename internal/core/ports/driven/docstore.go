package driven

import (
	"context"

	"github.com/loomworks/loom-cli/internal/core/domain"
)

// DocumentStore persists document and chunk metadata.
// Chunk bodies are content-addressed in the ObjectStore; this store holds
// the document records and the chunk ordering for each document.
type DocumentStore interface {
	// SaveDocument stores a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks stores the ordered chunks for a document.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetChunks retrieves all chunks for a document, ordered by position.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// GetChunk retrieves a chunk by ID. When identical content appears in
	// several documents the lookup is deterministic (lowest document ID).
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, id string) error

	// ListDocuments returns all documents, ordered by ID.
	ListDocuments(ctx context.Context) ([]domain.Document, error)
}
