package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomworks/loom-cli/internal/adapters/driven/clock"
	"github.com/loomworks/loom-cli/internal/adapters/driven/index/lexical"
	"github.com/loomworks/loom-cli/internal/adapters/driven/index/vector"
	"github.com/loomworks/loom-cli/internal/adapters/driven/storage/memory"
	"github.com/loomworks/loom-cli/internal/core/domain"
	"github.com/loomworks/loom-cli/internal/normalisers/plaintext"
	"github.com/loomworks/loom-cli/internal/postprocessors/chunker"
)

// vaultFixture bundles a vault service with its in-memory dependencies.
type vaultFixture struct {
	svc     *VaultService
	objects *memory.ObjectStore
	docs    *memory.DocumentStore
	engine  *lexical.Engine
	vectors *vector.Index
}

func newVaultFixture(t *testing.T, embedder *mockEmbeddingService) *vaultFixture {
	t.Helper()

	f := &vaultFixture{
		objects: memory.NewObjectStore(),
		docs:    memory.NewDocumentStore(),
		engine:  lexical.New(),
		vectors: vector.New(embedder != nil),
	}

	fixed := clock.Fixed{T: time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC)}
	proc := chunker.New(chunker.WithChunkSize(40), chunker.WithOverlap(10))
	if embedder != nil {
		f.svc = NewVaultService(f.objects, f.docs, f.engine, f.vectors, embedder, fixed, proc)
	} else {
		f.svc = NewVaultService(f.objects, f.docs, f.engine, f.vectors, nil, fixed, proc)
	}
	f.svc.RegisterNormaliser(plaintext.New())
	return f
}

func TestImport_PersistsDocumentAndChunks(t *testing.T) {
	f := newVaultFixture(t, nil)
	ctx := context.Background()

	raw := []byte("Release Notes\n\nThe quick brown fox jumps over the lazy dog repeatedly.")
	doc, chunks, err := f.svc.Import(ctx, "/docs/notes.txt", raw)
	require.NoError(t, err)
	require.NotNil(t, doc)
	require.NotEmpty(t, chunks)

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "Release Notes", doc.Title)
	assert.Equal(t, "/docs/notes.txt", doc.SourcePath)
	assert.Equal(t, time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC), doc.CreatedAt)

	// Every chunk body lives in the object store under its own hash.
	for _, chunk := range chunks {
		data, err := f.objects.Get(ctx, chunk.ID)
		require.NoError(t, err)
		assert.Equal(t, chunk.Content, string(data))
		assert.Equal(t, domain.HashContent(data), chunk.ID)
	}

	stored, err := f.docs.GetChunks(ctx, doc.ID)
	require.NoError(t, err)
	assert.Len(t, stored, len(chunks))
}

func TestImport_ChunksAreSearchable(t *testing.T) {
	f := newVaultFixture(t, nil)
	ctx := context.Background()

	_, chunks, err := f.svc.Import(ctx, "/docs/a.txt", []byte("searchable vault content"))
	require.NoError(t, err)

	hits, err := f.engine.Search(ctx, "vault", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, chunks[0].ID, hits[0].ChunkID)
}

func TestImport_DeterministicChunkIDs(t *testing.T) {
	f1 := newVaultFixture(t, nil)
	f2 := newVaultFixture(t, nil)
	ctx := context.Background()

	raw := []byte("identical content imported twice into separate vaults")

	_, chunks1, err := f1.svc.Import(ctx, "/docs/a.txt", raw)
	require.NoError(t, err)
	_, chunks2, err := f2.svc.Import(ctx, "/docs/b.txt", raw)
	require.NoError(t, err)

	require.Len(t, chunks2, len(chunks1))
	for i := range chunks1 {
		assert.Equal(t, chunks1[i].ID, chunks2[i].ID)
	}
}

func TestImport_DedupsAtObjectLevel(t *testing.T) {
	f := newVaultFixture(t, nil)
	ctx := context.Background()

	raw := []byte("the same content")
	_, _, err := f.svc.Import(ctx, "/docs/a.txt", raw)
	require.NoError(t, err)
	_, _, err = f.svc.Import(ctx, "/docs/b.txt", raw)
	require.NoError(t, err)

	// Two documents, one set of objects.
	docs, err := f.docs.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	// Short content chunks to a single piece equal to the body, so
	// both imports collapse to one stored object.
	hashes, err := f.objects.List(ctx)
	require.NoError(t, err)
	assert.Len(t, hashes, 1)
}

func TestImport_UnsupportedExtension(t *testing.T) {
	f := newVaultFixture(t, nil)

	_, _, err := f.svc.Import(context.Background(), "/docs/image.png", []byte{0xff})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestImport_FeedsVectorIndex(t *testing.T) {
	embedder := &mockEmbeddingService{embedding: []float32{1, 0, 0}}
	f := newVaultFixture(t, embedder)
	ctx := context.Background()

	_, chunks, err := f.svc.Import(ctx, "/docs/a.txt", []byte("vector indexed text"))
	require.NoError(t, err)

	hits, err := f.vectors.Search(ctx, []float32{1, 0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, chunks[0].ID, hits[0].ChunkID)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-6)
}

func TestImport_SkipsVectorIndexWhenDisabled(t *testing.T) {
	f := newVaultFixture(t, nil)
	ctx := context.Background()

	_, _, err := f.svc.Import(ctx, "/docs/a.txt", []byte("no vectors here"))
	require.NoError(t, err)

	assert.False(t, f.vectors.Available())
	hits, err := f.vectors.Search(ctx, []float32{1}, 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestDelete_RemovesMetadataAndIndexEntries(t *testing.T) {
	f := newVaultFixture(t, nil)
	ctx := context.Background()

	doc, chunks, err := f.svc.Import(ctx, "/docs/a.txt", []byte("ephemeral indexed text"))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, doc.ID))

	_, err = f.svc.Get(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	hits, err := f.engine.Search(ctx, "ephemeral", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)

	// Objects stay behind: content addressing makes them shareable.
	_, err = f.objects.Get(ctx, chunks[0].ID)
	assert.NoError(t, err)
}

func TestDelete_KeepsSharedChunksIndexed(t *testing.T) {
	f := newVaultFixture(t, nil)
	ctx := context.Background()

	raw := []byte("shared body text")
	docA, _, err := f.svc.Import(ctx, "/docs/a.txt", raw)
	require.NoError(t, err)
	_, _, err = f.svc.Import(ctx, "/docs/b.txt", raw)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, docA.ID))

	// The second document still resolves through the shared chunk.
	hits, err := f.engine.Search(ctx, "shared", 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestVerify_CleanStore(t *testing.T) {
	f := newVaultFixture(t, nil)
	ctx := context.Background()

	_, _, err := f.svc.Import(ctx, "/docs/a.txt", []byte("verified content"))
	require.NoError(t, err)

	hashes, err := f.objects.List(ctx)
	require.NoError(t, err)

	report, err := f.svc.Verify(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(hashes), report.ObjectsVerified)
	assert.Zero(t, report.ObjectsFailed)
	assert.True(t, report.Clean())
}

func TestListAndGet(t *testing.T) {
	f := newVaultFixture(t, nil)
	ctx := context.Background()

	doc, _, err := f.svc.Import(ctx, "/docs/a.txt", []byte("listed content"))
	require.NoError(t, err)

	docs, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, doc.ID, docs[0].ID)

	got, err := f.svc.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.Title, got.Title)
}
