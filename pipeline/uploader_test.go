package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/impresso/impresso-text-embedder/storage"
	"github.com/impresso/impresso-text-embedder/storage/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "artifact.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestUploaderUpload(t *testing.T) {
	store := mock.NewMockStore()
	u := NewUploader(store, nil)
	path := writeTempFile(t, "line1\nline2\n")

	err := u.Upload(context.Background(), path, "s3://bucket/out/result.jsonl")
	require.NoError(t, err)

	obj, ok := store.Get("bucket", "out/result.jsonl")
	require.True(t, ok)
	assert.Equal(t, "line1\nline2\n", string(obj.Data))
	assert.Equal(t, 1, store.PutCount())
}

func TestUploaderIdempotent(t *testing.T) {
	store := mock.NewMockStore()
	u := NewUploader(store, nil)
	path := writeTempFile(t, "first upload\n")

	require.NoError(t, u.Upload(context.Background(), path, "s3://bucket/out/result.jsonl"))

	// Second run against the same key: no-op, remote object unchanged
	other := writeTempFile(t, "second upload\n")
	require.NoError(t, u.Upload(context.Background(), other, "s3://bucket/out/result.jsonl"))

	obj, _ := store.Get("bucket", "out/result.jsonl")
	assert.Equal(t, "first upload\n", string(obj.Data))
	assert.Equal(t, 1, store.PutCount())
}

func TestUploaderInvalidLocator(t *testing.T) {
	u := NewUploader(mock.NewMockStore(), nil)

	err := u.Upload(context.Background(), "/tmp/whatever", "not-a-locator")
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrInvalidPath)
}

func TestUploaderLocalFileMissing(t *testing.T) {
	u := NewUploader(mock.NewMockStore(), nil)

	err := u.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.jsonl"), "s3://bucket/key")
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrLocalFileMissing)
}

func TestUploaderCredentialErrors(t *testing.T) {
	tests := []struct {
		name     string
		credErr  error
		expected error
	}{
		{"missing credentials", storage.ErrMissingCredentials, storage.ErrMissingCredentials},
		{"partial credentials", storage.ErrPartialCredentials, storage.ErrPartialCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mock.NewMockStore()
			u := NewUploader(store, func() error { return tt.credErr })
			path := writeTempFile(t, "data\n")

			err := u.Upload(context.Background(), path, "s3://bucket/key")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.expected)
			assert.Equal(t, 0, store.PutCount())
		})
	}
}

func TestUploaderProbeErrorPropagates(t *testing.T) {
	store := mock.NewMockStore()
	store.ObjectExistsFunc = func(ctx context.Context, bucket, key string) (bool, error) {
		return false, fmt.Errorf("%w: access denied", storage.ErrRemoteProbe)
	}
	u := NewUploader(store, nil)
	path := writeTempFile(t, "data\n")

	err := u.Upload(context.Background(), path, "s3://bucket/key")
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrRemoteProbe)
}

func TestUploaderExists(t *testing.T) {
	store := mock.NewMockStore()
	store.Seed("bucket", "present.jsonl", []byte("x"), testTime(t))
	u := NewUploader(store, nil)

	exists, err := u.Exists(context.Background(), "s3://bucket/present.jsonl")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = u.Exists(context.Background(), "s3://bucket/absent.jsonl")
	require.NoError(t, err)
	assert.False(t, exists)
}
