package driven

import (
	"context"

	"github.com/loomworks/loom-cli/internal/core/domain"
)

// ObjectStore persists raw bytes under their content hash.
// Keys are SHA-256 hex digests of the stored bytes. Objects are
// write-once: a second Put of identical content is a no-op, and the
// bytes under a given key never change.
type ObjectStore interface {
	// Put stores the bytes under their content hash and returns the hash.
	// Idempotent: storing identical content again returns the same hash
	// without rewriting.
	Put(ctx context.Context, data []byte) (string, error)

	// Get retrieves the bytes for a hash.
	// Returns domain.ErrNotFound when the object is absent.
	Get(ctx context.Context, hash string) ([]byte, error)

	// List returns all stored hashes in ascending order.
	List(ctx context.Context) ([]string, error)

	// VerifyIntegrity re-hashes every stored object and compares the
	// result to its key. Failures are aggregated into the report rather
	// than short-circuiting.
	VerifyIntegrity(ctx context.Context) (domain.IntegrityReport, error)
}
