package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomworks/loom-cli/internal/core/domain"
	"github.com/loomworks/loom-cli/internal/protocol/frame"
)

func sampleResults() []domain.SearchResult {
	chunk := domain.NewChunk("doc-1", "alpha beta gamma", 0)
	return []domain.SearchResult{{
		Document:   domain.Document{ID: "doc-1", Title: "First Doc"},
		Chunk:      chunk,
		Score:      0.03278688524590164,
		Highlights: []string{"alpha beta gamma"},
	}}
}

func TestBuildResultFrame(t *testing.T) {
	text, err := BuildResultFrame("alpha", sampleResults())
	require.NoError(t, err)

	f, err := frame.Parse(text)
	require.NoError(t, err)

	typ, ok := f.Get("type")
	require.True(t, ok)
	assert.Equal(t, "search-results", typ)

	query, _ := f.Get("query")
	assert.Equal(t, "alpha", query)

	count, _ := f.Get("count")
	assert.Equal(t, "1", count)

	require.Len(t, f.Payload, 1)
	assert.Contains(t, f.Payload[0], sampleResults()[0].Chunk.ID)
	assert.Contains(t, f.Payload[0], "First Doc")
}

func TestBuildResultFrame_Deterministic(t *testing.T) {
	first, err := BuildResultFrame("alpha", sampleResults())
	require.NoError(t, err)

	for range 5 {
		again, err := BuildResultFrame("alpha", sampleResults())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestBuildResultFrame_StripsControlCharacters(t *testing.T) {
	results := sampleResults()
	results[0].Document.Title = "bad\x02title\x1f"

	text, err := BuildResultFrame("q\x03uery", results)
	require.NoError(t, err)

	f, err := frame.Parse(text)
	require.NoError(t, err)

	query, _ := f.Get("query")
	assert.Equal(t, "query", query)
	assert.Contains(t, f.Payload[0], "badtitle")
}

func TestBuildResultFrame_Empty(t *testing.T) {
	text, err := BuildResultFrame("nothing", nil)
	require.NoError(t, err)

	f, err := frame.Parse(text)
	require.NoError(t, err)

	count, _ := f.Get("count")
	assert.Equal(t, "0", count)
	assert.Empty(t, f.Payload)
}

func TestBuildConversationFrame(t *testing.T) {
	ts := time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC)
	entries := []domain.CacheEntry{
		{ProjectID: "p1", Block: "plan", Key: "step", Value: "chunk the input", TS: ts},
		{ProjectID: "p1", Block: "summary", Key: "latest", Value: "all good", TS: ts},
	}

	text, err := BuildConversationFrame("p1", entries)
	require.NoError(t, err)

	f, err := frame.Parse(text)
	require.NoError(t, err)

	project, _ := f.Get("project")
	assert.Equal(t, "p1", project)

	count, _ := f.Get("count")
	assert.Equal(t, "2", count)

	require.Len(t, f.Payload, 2)
	assert.Contains(t, f.Payload[0], "plan")
	assert.Contains(t, f.Payload[0], "2026-02-02T12:00:00Z")
	assert.Contains(t, f.Payload[1], "summary")
}
