// Copyright 2025 Impresso Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package stamp

import (
	"compress/bzip2"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/impresso/impresso-text-embedder/storage"
	"github.com/panjf2000/ants/v2"
)

// MirrorConfig holds configuration for one mirroring pass.
type MirrorConfig struct {
	// LocalDir is the local directory root under which stamps are created.
	LocalDir string

	// IncludeBucket nests stamps under a directory named after the bucket.
	IncludeBucket bool

	// Extension is appended to stamp file names when no content is written.
	// The preceding dot must be included.
	Extension string

	// WriteContent fetches each object's content (decompressing .bz2) into
	// the stamp file instead of leaving it empty.
	WriteContent bool

	// Workers is the size of the stamp-creation worker pool.
	Workers int
}

// DefaultMirrorConfig returns a MirrorConfig with the conventional defaults.
func DefaultMirrorConfig() *MirrorConfig {
	workers := runtime.NumCPU() / 2
	if workers < 1 {
		workers = 1
	}
	return &MirrorConfig{
		LocalDir:      "./",
		IncludeBucket: true,
		Extension:     ".stamp",
		Workers:       workers,
	}
}

// Mirror creates local stamp files mirroring the structure of remote
// objects: each stamp's path reflects the object key and its mtime/atime are
// forced to the object's last-modified timestamp, giving a lightweight
// content-free marker that an object "has been seen locally".
type Mirror struct {
	store  storage.ObjectStore
	cfg    *MirrorConfig
	pool   *ants.Pool
	logger *slog.Logger

	created atomic.Int64
	failed  atomic.Int64
}

// NewMirror creates a mirror with its worker pool.
func NewMirror(store storage.ObjectStore, cfg *MirrorConfig) (*Mirror, error) {
	if store == nil {
		return nil, errors.New("object store is required")
	}
	if cfg == nil {
		cfg = DefaultMirrorConfig()
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}

	return &Mirror{
		store:  store,
		cfg:    cfg,
		pool:   pool,
		logger: slog.Default().With("component", "stamp-mirror"),
	}, nil
}

// Run mirrors every object under the given s3://bucket/prefix locator.
// Listing failures are fatal; per-object stamp failures are logged and
// counted but do not stop the pass.
func (m *Mirror) Run(ctx context.Context, locator string) error {
	bucket, prefix, err := storage.ParsePrefix(locator)
	if err != nil {
		return err
	}

	m.logger.Info("starting stamp file creation", "bucket", bucket, "prefix", prefix)

	var wg sync.WaitGroup
	listErr := m.store.ListObjects(ctx, bucket, prefix, func(info storage.ObjectInfo) error {
		wg.Add(1)
		obj := info
		if err := m.pool.Submit(func() {
			defer wg.Done()
			if err := m.stampObject(ctx, bucket, obj); err != nil {
				m.failed.Add(1)
				m.logger.Error("failed to create stamp file", "key", obj.Key, "err", err)
				return
			}
			m.created.Add(1)
		}); err != nil {
			wg.Done()
			return err
		}
		return nil
	})

	wg.Wait()

	m.logger.Info("stamp file creation completed",
		"files_created", m.created.Load(), "failed", m.failed.Load())
	return listErr
}

// stampObject creates one local stamp file for the object.
func (m *Mirror) stampObject(ctx context.Context, bucket string, info storage.ObjectInfo) error {
	var content []byte
	if m.cfg.WriteContent {
		data, err := m.objectContent(ctx, bucket, info.Key)
		if err != nil {
			return err
		}
		content = data
	}

	localPath := m.localPath(bucket, info.Key, content != nil)

	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return fmt.Errorf("create directories for %s: %w", localPath, err)
	}
	if err := os.WriteFile(localPath, content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", localPath, err)
	}
	modified := lastModifiedOrNow(info.LastModified)
	if err := os.Chtimes(localPath, modified, modified); err != nil {
		return fmt.Errorf("set times on %s: %w", localPath, err)
	}

	m.logger.Info("created stamp file", "path", localPath, "last_modified", modified)
	return nil
}

// localPath maps a remote key onto the local stamp path. The extension is
// only appended for content-free stamps.
func (m *Mirror) localPath(bucket, key string, hasContent bool) string {
	local := filepath.FromSlash(key)
	if m.cfg.IncludeBucket {
		local = filepath.Join(bucket, local)
	}
	local = filepath.Join(m.cfg.LocalDir, local)
	if !hasContent {
		local += m.cfg.Extension
	}
	return local
}

// objectContent fetches and, for .bz2 keys, decompresses the object body.
func (m *Mirror) objectContent(ctx context.Context, bucket, key string) ([]byte, error) {
	body, err := m.store.GetObject(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var r io.Reader = body
	if strings.HasSuffix(key, ".bz2") {
		r = bzip2.NewReader(body)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read s3://%s/%s: %w", bucket, key, err)
	}
	return data, nil
}

// FilesCreated returns the number of stamp files written so far.
func (m *Mirror) FilesCreated() int64 {
	return m.created.Load()
}

// Failed returns the number of objects whose stamp could not be written.
func (m *Mirror) Failed() int64 {
	return m.failed.Load()
}

// Release releases the worker pool. The mirror should not be used afterwards.
func (m *Mirror) Release() {
	m.pool.Release()
}

// lastModifiedOrNow guards against backends that report a zero LastModified.
func lastModifiedOrNow(ts time.Time) time.Time {
	if ts.IsZero() {
		return time.Now().UTC()
	}
	return ts
}
