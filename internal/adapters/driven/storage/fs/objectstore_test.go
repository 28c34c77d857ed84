package fs

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomworks/loom-cli/internal/core/domain"
)

func newStore(t *testing.T) *ObjectStore {
	t.Helper()
	s, err := NewObjectStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestNewObjectStore_EmptyDir(t *testing.T) {
	_, err := NewObjectStore("")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPutGet_RoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	hash, err := s.Put(ctx, []byte("alpha beta"))
	require.NoError(t, err)
	assert.Equal(t, domain.HashContent([]byte("alpha beta")), hash)

	data, err := s.Get(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, []byte("alpha beta"), data)
}

func TestPut_DedupByHash(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	first, err := s.Put(ctx, []byte("same content"))
	require.NoError(t, err)
	second, err := s.Put(ctx, []byte("same content"))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	hashes, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, hashes, 1)
}

func TestPut_WriteOnce(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	hash, err := s.Put(ctx, []byte("original"))
	require.NoError(t, err)

	// Tamper on disk, then re-Put the original content. The existing
	// object file must be left untouched (write-once: Put never rewrites
	// an existing key).
	path := filepath.Join(s.root, hash[:2], hash)
	require.NoError(t, os.WriteFile(path, []byte("tampered"), 0600))

	_, err = s.Put(ctx, []byte("original"))
	require.NoError(t, err)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("tampered"), onDisk)
}

func TestGet_NotFound(t *testing.T) {
	s := newStore(t)

	_, err := s.Get(context.Background(), domain.HashContent([]byte("never stored")))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.Get(context.Background(), "not-a-hash")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_SortedAndFiltered(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	want := make(map[string]bool)
	for _, content := range []string{"one", "two", "three"} {
		hash, err := s.Put(ctx, []byte(content))
		require.NoError(t, err)
		want[hash] = true
	}

	// Stray files must not show up as objects.
	require.NoError(t, os.WriteFile(filepath.Join(s.root, "README"), []byte("not an object"), 0600))

	hashes, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, hashes, 3)
	assert.IsIncreasing(t, hashes)
	for _, h := range hashes {
		assert.True(t, want[h])
	}
}

func TestVerifyIntegrity_CleanStore(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	for _, content := range []string{"alpha", "beta", "gamma"} {
		_, err := s.Put(ctx, []byte(content))
		require.NoError(t, err)
	}

	report, err := s.VerifyIntegrity(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, report.ObjectsVerified)
	assert.Equal(t, 0, report.ObjectsFailed)
	assert.Empty(t, report.Errors)
	assert.True(t, report.Clean())
}

func TestVerifyIntegrity_DetectsCorruption(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	good, err := s.Put(ctx, []byte("good"))
	require.NoError(t, err)
	bad, err := s.Put(ctx, []byte("about to rot"))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(s.root, bad[:2], bad), []byte("rotten"), 0600))

	report, err := s.VerifyIntegrity(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.ObjectsVerified)
	assert.Equal(t, 1, report.ObjectsFailed)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], bad)
	assert.NotContains(t, report.Errors[0], good)
}

func TestVerifyIntegrity_EmptyStore(t *testing.T) {
	s := newStore(t)

	report, err := s.VerifyIntegrity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.ObjectsVerified)
	assert.True(t, report.Clean())
}

func TestPut_ConcurrentSameKey(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Put(ctx, []byte("contended content"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	hashes, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, hashes, 1)

	data, err := s.Get(ctx, hashes[0])
	require.NoError(t, err)
	assert.Equal(t, []byte("contended content"), data)
}
