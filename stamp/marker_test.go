package stamp

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateToMarker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embeddings.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("a very large artifact\n"), 0o644))

	ts := time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC)
	require.NoError(t, TruncateToMarker(path, ts))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Size())
	assert.True(t, info.ModTime().Equal(ts), "mtime %v, want %v", info.ModTime(), ts)
}

func TestTruncateToMarkerMissingFile(t *testing.T) {
	err := TruncateToMarker(filepath.Join(t.TempDir(), "absent.jsonl"), time.Now())
	assert.Error(t, err)
}
