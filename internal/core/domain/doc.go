// Package domain defines the core business entities for Loom.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An imported document, immutable after import
//   - Chunk: A content-addressed unit within a document
//   - CacheEntry: A conversation cache record
//   - IntegrityReport: The result of verifying the object store
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
