package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/impresso/impresso-text-embedder/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "embeddings.jsonl")
	stats := NewStats()

	records := []*core.Result{
		{ID: "a1", TS: "2024-01-01T00:00:00Z", Embedder: "m@r", Length: 500, Embedding: []float64{0.12346, -0.5}},
		{ID: "a2", TS: "2024-01-01T00:00:01Z", Embedder: "m@r", Length: 800, Text: "Zürich première", Embedding: []float64{1, 0}},
		{ID: "a3", TS: "2024-01-01T00:00:02Z", Embedder: "m@r", Length: 420, Embedding: []float64{0.0001}},
	}

	w, err := NewWriter(path, stats)
	require.NoError(t, err)
	for _, r := range records {
		require.NoError(t, w.Write(r))
	}
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, len(records))

	for i, line := range lines {
		var got core.Result
		require.NoError(t, json.Unmarshal([]byte(line), &got))
		assert.Equal(t, *records[i], got, "line %d", i)
	}

	assert.Equal(t, int64(3), stats.Get(StatRecordsWritten))
}

func TestWriterCompactOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embeddings.jsonl")
	w, err := NewWriter(path, NewStats())
	require.NoError(t, err)

	require.NoError(t, w.Write(&core.Result{
		ID: "a1", TS: "2024-01-01T00:00:00Z", Embedder: "m@r", Length: 1,
		Text: "ü & <b>", Embedding: []float64{0.5},
	}))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimRight(string(data), "\n")

	// No pretty-printing whitespace
	assert.NotContains(t, line, ": ")
	assert.NotContains(t, line, ", ")
	// Non-ASCII and HTML characters preserved literally
	assert.Contains(t, line, "ü & <b>")
	assert.NotContains(t, line, `\u`)
}

func TestWriterSkipsNilResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embeddings.jsonl")
	stats := NewStats()
	w, err := NewWriter(path, stats)
	require.NoError(t, err)

	require.NoError(t, w.Write(nil))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
	assert.Equal(t, int64(0), stats.Get(StatRecordsWritten))
}

func TestWriterOmitsEmptyText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embeddings.jsonl")
	w, err := NewWriter(path, NewStats())
	require.NoError(t, err)

	require.NoError(t, w.Write(&core.Result{
		ID: "a1", TS: "2024-01-01T00:00:00Z", Embedder: "m@r", Length: 500,
		Embedding: []float64{0.1},
	}))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"text"`)
}

func TestWriterTruncatesOnReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embeddings.jsonl")

	first, err := NewWriter(path, NewStats())
	require.NoError(t, err)
	require.NoError(t, first.Write(&core.Result{ID: "old", Embedding: []float64{1}}))
	require.NoError(t, first.Close())

	second, err := NewWriter(path, NewStats())
	require.NoError(t, err)
	require.NoError(t, second.Write(&core.Result{ID: "new", Embedding: []float64{1}}))
	require.NoError(t, second.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "old")
	assert.Contains(t, string(data), "new")
}
