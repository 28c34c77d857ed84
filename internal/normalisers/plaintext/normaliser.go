// Package plaintext normalises plain text documents.
package plaintext

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/loomworks/loom-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text sources.
type Normaliser struct{}

// New creates a new plaintext normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Extensions returns the file extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".txt", ".text", ".log"}
}

// Normalise returns the content as-is with line endings unified, and a
// title derived from the first non-empty line or the filename.
func (n *Normaliser) Normalise(_ context.Context, sourcePath string, raw []byte) (string, string, error) {
	content := strings.ReplaceAll(string(raw), "\r\n", "\n")

	title := ""
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			title = trimmed
			break
		}
	}
	if title == "" {
		title = TitleFromFilename(sourcePath)
	}
	if len(title) > 80 {
		title = title[:80]
	}

	return title, content, nil
}

// TitleFromFilename derives a title from the file name, dropping the
// extension.
func TitleFromFilename(sourcePath string) string {
	name := filepath.Base(sourcePath)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
