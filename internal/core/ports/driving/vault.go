package driving

import (
	"context"

	"github.com/loomworks/loom-cli/internal/core/domain"
)

// VaultService manages the document vault: import, chunking, persistence
// and integrity verification.
type VaultService interface {
	// Import normalises and chunks content, persists the chunk bodies in
	// the object store, saves metadata and feeds the indices. Returns the
	// new document and its chunks.
	Import(ctx context.Context, sourcePath string, raw []byte) (*domain.Document, []domain.Chunk, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// List returns all documents.
	List(ctx context.Context) ([]domain.Document, error)

	// Delete removes a document, its chunk metadata and index entries.
	Delete(ctx context.Context, documentID string) error

	// Verify re-hashes every stored object and reports mismatches.
	Verify(ctx context.Context) (domain.IntegrityReport, error)
}
