// Package memory provides in-memory implementations of the storage ports.
// Used for tests and ephemeral runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/loomworks/loom-cli/internal/core/domain"
	"github.com/loomworks/loom-cli/internal/core/ports/driven"
)

// Ensure ObjectStore implements the interface.
var _ driven.ObjectStore = (*ObjectStore)(nil)

// ObjectStore is an in-memory content-addressed store.
// Objects are write-once: the bytes under a key never change, and a
// second Put of identical content is a no-op.
type ObjectStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewObjectStore creates a new in-memory object store.
func NewObjectStore() *ObjectStore {
	return &ObjectStore{
		objects: make(map[string][]byte),
	}
}

// Put stores the bytes under their content hash.
func (s *ObjectStore) Put(_ context.Context, data []byte) (string, error) {
	hash := domain.HashContent(data)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[hash]; ok {
		// Dedup by hash: identical content is already present.
		return hash, nil
	}

	stored := make([]byte, len(data))
	copy(stored, data)
	s.objects[hash] = stored
	return hash, nil
}

// Get retrieves the bytes for a hash.
func (s *ObjectStore) Get(_ context.Context, hash string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.objects[hash]
	if !ok {
		return nil, domain.ErrNotFound
	}

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// List returns all stored hashes in ascending order.
func (s *ObjectStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hashes := make([]string, 0, len(s.objects))
	for hash := range s.objects {
		hashes = append(hashes, hash)
	}
	sort.Strings(hashes)
	return hashes, nil
}

// VerifyIntegrity re-hashes every object and aggregates mismatches.
func (s *ObjectStore) VerifyIntegrity(_ context.Context) (domain.IntegrityReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hashes := make([]string, 0, len(s.objects))
	for hash := range s.objects {
		hashes = append(hashes, hash)
	}
	sort.Strings(hashes)

	report := domain.IntegrityReport{Errors: []string{}}
	for _, hash := range hashes {
		if got := domain.HashContent(s.objects[hash]); got != hash {
			report.ObjectsFailed++
			report.Errors = append(report.Errors, fmt.Sprintf("object %s: content hashes to %s", hash, got))
			continue
		}
		report.ObjectsVerified++
	}

	return report, nil
}

// corrupt overwrites an object's bytes in place, bypassing the
// write-once rule. Test hook for integrity verification.
func (s *ObjectStore) corrupt(hash string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[hash] = data
}
