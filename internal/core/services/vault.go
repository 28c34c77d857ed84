package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/loomworks/loom-cli/internal/core/domain"
	"github.com/loomworks/loom-cli/internal/core/ports/driven"
	"github.com/loomworks/loom-cli/internal/core/ports/driving"
	"github.com/loomworks/loom-cli/internal/logger"
	"github.com/loomworks/loom-cli/internal/postprocessors/chunker"
)

// Ensure VaultService implements the interface.
var _ driving.VaultService = (*VaultService)(nil)

// embedConcurrency bounds the embedding fan-out during import.
const embedConcurrency = 4

// VaultService manages the document vault: import, chunking,
// content-addressed persistence and integrity verification.
type VaultService struct {
	objectStore driven.ObjectStore
	docStore    driven.DocumentStore
	searchIndex driven.SearchEngine
	vectorIndex driven.VectorIndex
	embedder    driven.EmbeddingService
	clock       driven.Clock
	chunker     *chunker.Processor
	normalisers map[string]driven.Normaliser
}

// NewVaultService creates a new vault service.
// The embedder parameter is optional (can be nil); without it imports
// skip the vector index.
func NewVaultService(
	objectStore driven.ObjectStore,
	docStore driven.DocumentStore,
	searchIndex driven.SearchEngine,
	vectorIndex driven.VectorIndex,
	embedder driven.EmbeddingService,
	clock driven.Clock,
	proc *chunker.Processor,
) *VaultService {
	if proc == nil {
		proc = chunker.New()
	}
	return &VaultService{
		objectStore: objectStore,
		docStore:    docStore,
		searchIndex: searchIndex,
		vectorIndex: vectorIndex,
		embedder:    embedder,
		clock:       clock,
		chunker:     proc,
		normalisers: make(map[string]driven.Normaliser),
	}
}

// RegisterNormaliser makes a normaliser available for its extensions.
func (s *VaultService) RegisterNormaliser(n driven.Normaliser) {
	for _, ext := range n.Extensions() {
		s.normalisers[strings.ToLower(ext)] = n
	}
}

// Import normalises and chunks raw content, persists the chunk bodies
// in the object store, saves metadata and feeds the indices.
func (s *VaultService) Import(
	ctx context.Context, sourcePath string, raw []byte,
) (*domain.Document, []domain.Chunk, error) {
	logger.Section("Import")
	logger.Debug("Source: %s (%d bytes)", sourcePath, len(raw))

	normaliser, err := s.normaliserFor(sourcePath)
	if err != nil {
		return nil, nil, err
	}

	title, content, err := normaliser.Normalise(ctx, sourcePath, raw)
	if err != nil {
		return nil, nil, fmt.Errorf("normalise %s: %w", sourcePath, err)
	}

	doc := &domain.Document{
		ID:         uuid.NewString(),
		Title:      title,
		SourcePath: sourcePath,
		Content:    content,
		CreatedAt:  s.clock.Now().UTC(),
	}

	chunks, err := s.chunker.Process(ctx, doc)
	if err != nil {
		return nil, nil, fmt.Errorf("chunk document: %w", err)
	}
	logger.Debug("Chunked into %d pieces", len(chunks))

	// Chunk bodies are content-addressed; re-importing identical
	// content dedups inside Put.
	if _, err := s.objectStore.Put(ctx, []byte(content)); err != nil {
		return nil, nil, fmt.Errorf("store document body: %w", err)
	}
	for _, chunk := range chunks {
		hash, err := s.objectStore.Put(ctx, []byte(chunk.Content))
		if err != nil {
			return nil, nil, fmt.Errorf("store chunk: %w", err)
		}
		if hash != chunk.ID {
			return nil, nil, fmt.Errorf("store chunk: hash mismatch for %s", chunk.ID)
		}
	}

	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, nil, fmt.Errorf("save document: %w", err)
	}
	if err := s.docStore.SaveChunks(ctx, chunks); err != nil {
		return nil, nil, fmt.Errorf("save chunks: %w", err)
	}

	for _, chunk := range chunks {
		if err := s.searchIndex.Index(ctx, chunk); err != nil {
			return nil, nil, fmt.Errorf("index chunk %s: %w", chunk.ID, err)
		}
	}

	if err := s.embedChunks(ctx, chunks); err != nil {
		return nil, nil, err
	}

	logger.Info("Imported %s as %s (%d chunks)", sourcePath, doc.ID, len(chunks))
	return doc, chunks, nil
}

// embedChunks adds chunk vectors to the vector index when both the
// index and the embedder are usable. Fan-out is bounded.
func (s *VaultService) embedChunks(ctx context.Context, chunks []domain.Chunk) error {
	if s.vectorIndex == nil || !s.vectorIndex.Available() || s.embedder == nil {
		logger.Debug("Vector index unavailable, skipping embeddings")
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)

	for _, chunk := range chunks {
		g.Go(func() error {
			vec, err := s.embedder.Embed(gctx, chunk.Content)
			if err != nil {
				return fmt.Errorf("embed chunk %s: %w", chunk.ID, err)
			}
			if err := s.vectorIndex.Add(gctx, chunk.ID, vec); err != nil {
				return fmt.Errorf("add vector %s: %w", chunk.ID, err)
			}
			return nil
		})
	}

	return g.Wait()
}

// Get retrieves a document by ID.
func (s *VaultService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.docStore.GetDocument(ctx, documentID)
}

// List returns all documents.
func (s *VaultService) List(ctx context.Context) ([]domain.Document, error) {
	return s.docStore.ListDocuments(ctx)
}

// Delete removes a document, its chunk metadata and index entries.
// Stored objects stay behind: they are content-addressed and can be
// shared between documents.
func (s *VaultService) Delete(ctx context.Context, documentID string) error {
	chunks, err := s.docStore.GetChunks(ctx, documentID)
	if err != nil {
		return fmt.Errorf("get chunks: %w", err)
	}

	if err := s.docStore.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	// Only unindex chunk IDs no longer referenced by any document.
	for _, chunk := range chunks {
		_, err := s.docStore.GetChunk(ctx, chunk.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("check chunk %s: %w", chunk.ID, err)
		}

		if err := s.searchIndex.Delete(ctx, chunk.ID); err != nil {
			return fmt.Errorf("unindex chunk %s: %w", chunk.ID, err)
		}
		if s.vectorIndex != nil {
			if err := s.vectorIndex.Delete(ctx, chunk.ID); err != nil {
				return fmt.Errorf("remove vector %s: %w", chunk.ID, err)
			}
		}
	}

	logger.Info("Deleted document %s (%d chunks)", documentID, len(chunks))
	return nil
}

// Verify re-hashes every stored object and reports mismatches.
func (s *VaultService) Verify(ctx context.Context) (domain.IntegrityReport, error) {
	logger.Section("Integrity Verification")
	report, err := s.objectStore.VerifyIntegrity(ctx)
	if err != nil {
		return domain.IntegrityReport{}, fmt.Errorf("verify integrity: %w", err)
	}
	logger.Info("Verified %d objects, %d failed", report.ObjectsVerified, report.ObjectsFailed)
	return report, nil
}

// normaliserFor selects the normaliser registered for a path's extension.
func (s *VaultService) normaliserFor(sourcePath string) (driven.Normaliser, error) {
	ext := strings.ToLower(filepath.Ext(sourcePath))
	n, ok := s.normalisers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported extension %q", domain.ErrInvalidInput, ext)
	}
	return n, nil
}
