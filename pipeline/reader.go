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


package pipeline

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/impresso/impresso-text-embedder/storage"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// maxLineSize bounds a single JSONL line. Full newspaper pages with text can
// run into megabytes.
const maxLineSize = 64 * 1024 * 1024

// LineReader yields decoded text lines from a compressed or plain source,
// in source order, one at a time.
type LineReader struct {
	scanner *bufio.Scanner
	closers []io.Closer
	lines   int64
}

// OpenLines opens a line-oriented source for reading.
//
// Remote locators (s3://…) are fetched fully into memory before
// decompression; local paths stream incrementally. The compression format is
// detected from the filename suffix: .bz2, .gz and .zst are supported,
// anything else is read as plain text. An unreadable source fails
// immediately with an error wrapping storage.ErrSourceUnavailable.
func OpenLines(ctx context.Context, store storage.ObjectStore, path string) (*LineReader, error) {
	var (
		src     io.Reader
		closers []io.Closer
	)

	if storage.IsRemote(path) {
		bucket, key, err := storage.ParsePath(path)
		if err != nil {
			return nil, err
		}
		if store == nil {
			return nil, fmt.Errorf("%w: no object store configured for %s", storage.ErrSourceUnavailable, path)
		}

		slog.Info("reading from S3", "path", path)
		body, err := store.GetObject(ctx, bucket, key)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", storage.ErrSourceUnavailable, err)
		}
		// Decompression-while-downloading is not required; buffering the
		// whole object keeps the S3 connection short-lived.
		data, err := io.ReadAll(body)
		body.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: read s3://%s/%s: %v", storage.ErrSourceUnavailable, bucket, key, err)
		}
		slog.Info("finished reading from S3", "path", path, "bytes", len(data))
		src = bytes.NewReader(data)
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", storage.ErrSourceUnavailable, err)
		}
		src = f
		closers = append(closers, f)
	}

	decompressed, closer, err := decompressor(src, path)
	if err != nil {
		for _, c := range closers {
			c.Close()
		}
		return nil, fmt.Errorf("%w: %v", storage.ErrSourceUnavailable, err)
	}
	if closer != nil {
		closers = append(closers, closer)
	}

	scanner := bufio.NewScanner(decompressed)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	return &LineReader{scanner: scanner, closers: closers}, nil
}

// decompressor wraps r according to the filename suffix.
func decompressor(r io.Reader, path string) (io.Reader, io.Closer, error) {
	switch {
	case strings.HasSuffix(path, ".bz2"):
		return bzip2.NewReader(r), nil, nil
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("open gzip %s: %w", path, err)
		}
		return gz, gz, nil
	case strings.HasSuffix(path, ".zst"):
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("open zstd %s: %w", path, err)
		}
		rc := zr.IOReadCloser()
		return rc, rc, nil
	default:
		return r, nil, nil
	}
}

// Scan advances to the next line. It returns false at end of stream or on
// error; check Err after the loop.
func (r *LineReader) Scan() bool {
	if r.scanner.Scan() {
		r.lines++
		return true
	}
	return false
}

// Text returns the current line without its trailing newline.
func (r *LineReader) Text() string {
	return r.scanner.Text()
}

// Bytes returns the current line without its trailing newline. The slice is
// only valid until the next call to Scan.
func (r *LineReader) Bytes() []byte {
	return r.scanner.Bytes()
}

// Lines returns the number of lines yielded so far.
func (r *LineReader) Lines() int64 {
	return r.lines
}

// Err returns the first error encountered while scanning.
func (r *LineReader) Err() error {
	if err := r.scanner.Err(); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrSourceUnavailable, err)
	}
	return nil
}

// Close releases the underlying source.
func (r *LineReader) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
