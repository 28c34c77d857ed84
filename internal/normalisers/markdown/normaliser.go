// Package markdown normalises Markdown documents using goldmark.
package markdown

import (
	"context"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gmtext "github.com/yuin/goldmark/text"

	"github.com/loomworks/loom-cli/internal/core/ports/driven"
	"github.com/loomworks/loom-cli/internal/normalisers/plaintext"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser converts Markdown to plain text by walking the goldmark
// AST, so formatting syntax never leaks into chunks or search terms.
type Normaliser struct {
	md goldmark.Markdown
}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Table),
		),
	}
}

// Extensions returns the file extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".md", ".markdown"}
}

// Normalise extracts a title and the plain-text content.
// The title is the first level-1 heading, falling back to the first
// level-2 heading, then the filename.
func (n *Normaliser) Normalise(_ context.Context, sourcePath string, raw []byte) (string, string, error) {
	if len(raw) == 0 {
		return plaintext.TitleFromFilename(sourcePath), "", nil
	}

	doc := n.md.Parser().Parse(gmtext.NewReader(raw))

	title := extractTitle(doc, raw)
	if title == "" {
		title = plaintext.TitleFromFilename(sourcePath)
	}

	return title, extractText(doc, raw), nil
}

// extractTitle finds the first H1, or the first H2 when no H1 exists.
func extractTitle(doc ast.Node, source []byte) string {
	var firstH1, firstH2 string

	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := node.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		text := nodeText(heading, source)
		switch {
		case heading.Level == 1 && firstH1 == "":
			firstH1 = text
			return ast.WalkStop, nil
		case heading.Level == 2 && firstH2 == "":
			firstH2 = text
		}
		return ast.WalkContinue, nil
	})

	if firstH1 != "" {
		return firstH1
	}
	return firstH2
}

// extractText flattens the AST into plain text, one blank line between
// blocks.
func extractText(doc ast.Node, source []byte) string {
	var sb strings.Builder

	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			switch node.(type) {
			case *ast.Paragraph, *ast.Heading, *ast.ListItem, *ast.Blockquote:
				sb.WriteString("\n")
			}
			return ast.WalkContinue, nil
		}

		switch t := node.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteString("\n")
			}
		case *ast.FencedCodeBlock:
			writeLines(&sb, t, source)
		case *ast.CodeBlock:
			writeLines(&sb, t, source)
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(sb.String())
}

// nodeText collects the raw text beneath a node.
func nodeText(node ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				sb.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

func writeLines(sb *strings.Builder, node interface{ Lines() *gmtext.Segments }, source []byte) {
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	sb.WriteString("\n")
}
