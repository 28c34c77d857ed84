// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ObjectStore: Content-addressed, write-once object persistence
//   - DocumentStore: Document and chunk metadata persistence
//   - SearchEngine: Lexical search over chunks. Always required.
//   - Clock: Time source for cache timestamps and import metadata
//
// # Optional Interfaces
//
// These can be nil or disabled - the application degrades gracefully:
//
//   - VectorIndex: Vector storage/search. A disabled index is a valid
//     state: adds are no-ops and searches return nothing.
//   - EmbeddingService: Generates vector embeddings. Without it, the
//     vector index is also effectively disabled.
//   - Normaliser: Source-format normalisation before chunking.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
