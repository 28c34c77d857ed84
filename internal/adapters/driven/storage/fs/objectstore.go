// Package fs provides the on-disk content-addressed object store.
//
// Layout is one file per object under a two-character shard directory
// derived from the hash prefix (git-style): <root>/ab/abcdef…  Writes go
// through a temp file and rename so a crash never leaves a partial
// object under a valid key.
package fs

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/loomworks/loom-cli/internal/core/domain"
	"github.com/loomworks/loom-cli/internal/core/ports/driven"
	"github.com/loomworks/loom-cli/internal/logger"
)

// verifyConcurrency bounds the verification fan-out.
const verifyConcurrency = 8

// Ensure ObjectStore implements the interface.
var _ driven.ObjectStore = (*ObjectStore)(nil)

// ObjectStore stores objects on disk keyed by their SHA-256 hex digest.
type ObjectStore struct {
	root string

	// writeMu serializes writes so Put is atomic per key. Objects are
	// immutable once written, so reads need no locking.
	writeMu sync.Mutex
}

// NewObjectStore creates (or opens) an object store rooted at dir.
func NewObjectStore(dir string) (*ObjectStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("object store: %w: empty root directory", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating object store root: %w", err)
	}
	return &ObjectStore{root: dir}, nil
}

// Put stores the bytes under their content hash.
// Idempotent: when the object already exists the bytes on disk are left
// untouched and the existing hash is returned.
func (s *ObjectStore) Put(_ context.Context, data []byte) (string, error) {
	hash := domain.HashContent(data)
	path := s.objectPath(hash)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := os.Stat(path); err == nil {
		logger.Debug("Object %s already stored, dedup hit", shortHash(hash))
		return hash, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return "", fmt.Errorf("creating shard directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("creating temp object: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("writing object %s: %w", hash, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("closing object %s: %w", hash, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("committing object %s: %w", hash, err)
	}

	logger.Debug("Stored object %s (%d bytes)", shortHash(hash), len(data))
	return hash, nil
}

// Get retrieves the bytes for a hash.
func (s *ObjectStore) Get(_ context.Context, hash string) ([]byte, error) {
	if !validHash(hash) {
		return nil, fmt.Errorf("object %s: %w", hash, domain.ErrNotFound)
	}

	data, err := os.ReadFile(s.objectPath(hash))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("object %s: %w", hash, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading object %s: %w", hash, err)
	}
	return data, nil
}

// List returns all stored hashes in ascending order.
func (s *ObjectStore) List(_ context.Context) ([]string, error) {
	shards, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("listing object store: %w", err)
	}

	var hashes []string
	for _, shard := range shards {
		if !shard.IsDir() || len(shard.Name()) != 2 {
			continue
		}
		entries, err := os.ReadDir(filepath.Join(s.root, shard.Name()))
		if err != nil {
			return nil, fmt.Errorf("listing shard %s: %w", shard.Name(), err)
		}
		for _, entry := range entries {
			if validHash(entry.Name()) {
				hashes = append(hashes, entry.Name())
			}
		}
	}

	sort.Strings(hashes)
	return hashes, nil
}

// VerifyIntegrity re-hashes every object with bounded concurrency.
// Mismatches and read failures are aggregated into the report; a single
// corrupt object never blocks verification of the rest of the store.
func (s *ObjectStore) VerifyIntegrity(ctx context.Context) (domain.IntegrityReport, error) {
	hashes, err := s.List(ctx)
	if err != nil {
		return domain.IntegrityReport{}, err
	}

	logger.Section("Integrity Verification")
	logger.Debug("Verifying %d objects", len(hashes))

	var mu sync.Mutex
	report := domain.IntegrityReport{Errors: []string{}}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(verifyConcurrency)

	for _, hash := range hashes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			data, err := os.ReadFile(s.objectPath(hash))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				report.ObjectsFailed++
				report.Errors = append(report.Errors, fmt.Sprintf("object %s: read failed: %v", hash, err))
			case domain.HashContent(data) != hash:
				report.ObjectsFailed++
				report.Errors = append(report.Errors,
					fmt.Sprintf("object %s: content hashes to %s", hash, domain.HashContent(data)))
			default:
				report.ObjectsVerified++
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.IntegrityReport{}, fmt.Errorf("verify integrity: %w", err)
	}

	// The fan-out completes in arbitrary order; sort for a stable report.
	sort.Strings(report.Errors)

	logger.Info("Verified %d objects, %d failed", report.ObjectsVerified, report.ObjectsFailed)
	return report, nil
}

// objectPath maps a hash to its shard path.
func (s *ObjectStore) objectPath(hash string) string {
	return filepath.Join(s.root, hash[:2], hash)
}

// validHash reports whether name looks like a SHA-256 hex digest.
func validHash(name string) bool {
	if len(name) != 64 {
		return false
	}
	_, err := hex.DecodeString(name)
	return err == nil
}

func shortHash(hash string) string {
	return hash[:12]
}
