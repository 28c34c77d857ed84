package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Document represents an imported document.
// Documents are immutable after import; re-importing produces a new document.
type Document struct {
	// ID is the unique identifier assigned at import.
	ID string

	// Title is the human-readable title.
	Title string

	// SourcePath is the original location (file path, URL, etc).
	SourcePath string

	// Content is the full text content after normalisation.
	// This is the complete document text before chunking.
	Content string

	// CreatedAt is when the document was imported.
	CreatedAt time.Time
}

// Chunk represents a searchable unit within a document.
// A chunk is content-addressed: its ID is the SHA-256 hex digest of its
// content, never an assigned identifier. Identical content always yields
// the identical chunk ID, which doubles as the object store key.
type Chunk struct {
	// ID is the SHA-256 hex digest of Content.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int
}

// HashContent returns the SHA-256 hex digest of the given bytes.
// It is the single addressing function for chunks and stored objects.
func HashContent(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// NewChunk builds a content-addressed chunk for a document.
func NewChunk(documentID, content string, position int) Chunk {
	return Chunk{
		ID:         HashContent([]byte(content)),
		DocumentID: documentID,
		Content:    content,
		Position:   position,
	}
}
