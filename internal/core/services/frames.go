package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/loomworks/loom-cli/internal/core/domain"
	"github.com/loomworks/loom-cli/internal/protocol/frame"
)

// frameSchema versions the frame layouts produced here.
const frameSchema = "loom/1"

// BuildResultFrame packages ranked search results into canonical wire
// form. One payload segment per hit: chunk ID, score, document ID and
// title on separate lines, then the leading highlight.
func BuildResultFrame(query string, results []domain.SearchResult) (string, error) {
	var f frame.Frame
	f.Set("schema", frameSchema)
	f.Set("type", "search-results")
	f.Set("query", sanitizeFrameText(query))
	f.Set("count", strconv.Itoa(len(results)))

	for _, r := range results {
		snippet := ""
		if len(r.Highlights) > 0 {
			snippet = r.Highlights[0]
		}
		segment := strings.Join([]string{
			r.Chunk.ID,
			strconv.FormatFloat(r.Score, 'f', -1, 64),
			r.Document.ID,
			sanitizeFrameText(r.Document.Title),
			sanitizeFrameText(snippet),
		}, "\n")
		f.Append(segment)
	}

	text, err := frame.Serialize(f)
	if err != nil {
		return "", fmt.Errorf("build result frame: %w", err)
	}
	return text, nil
}

// BuildConversationFrame packages a project's cached conversation state
// into canonical wire form. Entries arrive ordered by (block, key) from
// the cache, so the output is deterministic for a given cache state.
func BuildConversationFrame(projectID string, entries []domain.CacheEntry) (string, error) {
	var f frame.Frame
	f.Set("schema", frameSchema)
	f.Set("type", "conversation")
	f.Set("project", sanitizeFrameText(projectID))
	f.Set("count", strconv.Itoa(len(entries)))

	for _, e := range entries {
		segment := strings.Join([]string{
			sanitizeFrameText(e.Block),
			sanitizeFrameText(e.Key),
			sanitizeFrameText(e.Value),
			e.TS.UTC().Format(time.RFC3339),
		}, "\n")
		f.Append(segment)
	}

	text, err := frame.Serialize(f)
	if err != nil {
		return "", fmt.Errorf("build conversation frame: %w", err)
	}
	return text, nil
}

// sanitizeFrameText strips the ASCII control range so arbitrary document
// or conversation text can never collide with the frame delimiters.
// Newlines and tabs survive; they carry structure inside segments.
func sanitizeFrameText(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
