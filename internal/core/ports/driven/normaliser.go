package driven

import "context"

// Normaliser converts raw source bytes into plain text ready for chunking.
// Implementations are selected by source file extension.
type Normaliser interface {
	// Extensions returns the file extensions this normaliser handles,
	// lowercased and including the dot (e.g. ".md").
	Extensions() []string

	// Normalise extracts a title and plain-text content from raw bytes.
	Normalise(ctx context.Context, sourcePath string, raw []byte) (title, content string, err error)
}
