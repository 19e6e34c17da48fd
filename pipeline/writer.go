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
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/impresso/impresso-text-embedder/core"
)

// Writer serializes result records as newline-delimited JSON. The
// destination file is truncated and fully rewritten on each run.
type Writer struct {
	path   string
	file   *os.File
	enc    *json.Encoder
	stats  *Stats
	logger *slog.Logger
}

// NewWriter opens the destination for writing, creating missing parent
// directories first.
func NewWriter(path string, stats *Stats) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}

	enc := json.NewEncoder(f)
	// Keep non-ASCII and HTML-significant characters literal on the wire.
	enc.SetEscapeHTML(false)

	return &Writer{
		path:   path,
		file:   f,
		enc:    enc,
		stats:  stats,
		logger: slog.Default().With("component", "writer"),
	}, nil
}

// Write appends one result as a compact JSON line. Nil results (filtered
// documents) are skipped silently.
func (w *Writer) Write(result *core.Result) error {
	if result == nil {
		return nil
	}

	w.logger.Debug("writing embedding", "id", result.ID)
	if err := w.enc.Encode(result); err != nil {
		return fmt.Errorf("write result %s: %w", result.ID, err)
	}

	w.stats.Inc(StatRecordsWritten)
	return nil
}

// Path returns the destination path.
func (w *Writer) Path() string {
	return w.path
}

// Close flushes and closes the destination file.
func (w *Writer) Close() error {
	return w.file.Close()
}
