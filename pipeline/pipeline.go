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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/impresso/impresso-text-embedder/ai"
	"github.com/impresso/impresso-text-embedder/stamp"
	"github.com/impresso/impresso-text-embedder/storage"
)

// Config holds configuration for one pipeline run.
type Config struct {
	// InputPath is an s3:// locator or local path to the compressed JSONL input.
	InputPath string

	// OutputPath is the local destination for the JSONL output.
	OutputPath string

	// NoOverwrite skips the run entirely when OutputPath already exists.
	NoOverwrite bool

	// S3OutputPath, when set, uploads the output artifact after processing.
	S3OutputPath string

	// S3OutputDryRun suppresses the upload step even when S3OutputPath is set.
	S3OutputDryRun bool

	// QuitIfS3OutputExists skips the run entirely when the remote output
	// already exists.
	QuitIfS3OutputExists bool

	// KeepTimestampOnly truncates the local output to a zero-byte timestamped
	// marker after a successful upload.
	KeepTimestampOnly bool

	// ContentTypes is the allow-set of document type tags.
	ContentTypes []string

	// MinCharLength is the minimum character count for embedding.
	MinCharLength int

	// NormalizeEmbeddings scales embeddings to unit length.
	NormalizeEmbeddings bool

	// IncludeText copies the raw text into each result record.
	IncludeText bool
}

// DefaultConfig returns a Config with the conventional defaults: article
// content only, 400-character minimum.
func DefaultConfig() *Config {
	return &Config{
		ContentTypes:  []string{"ar"},
		MinCharLength: 400,
	}
}

// Validate checks that the configuration is complete and coherent.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return errors.New("pipeline config: InputPath is required")
	}
	if c.OutputPath == "" {
		return errors.New("pipeline config: OutputPath is required")
	}
	if len(c.ContentTypes) == 0 {
		return errors.New("pipeline config: at least one content type is required")
	}
	if c.MinCharLength < 0 {
		return errors.New("pipeline config: MinCharLength must not be negative")
	}
	if c.S3OutputPath != "" {
		if _, _, err := storage.ParsePath(c.S3OutputPath); err != nil {
			return err
		}
	}
	return nil
}

// needsStore reports whether the run touches object storage at all.
func (c *Config) needsStore() bool {
	return storage.IsRemote(c.InputPath) || c.S3OutputPath != ""
}

// Pipeline runs one streaming embed pass: read, filter, embed, write, then
// optionally upload and truncate. A pipeline value is single-use.
type Pipeline struct {
	cfg       *Config
	store     storage.ObjectStore
	factory   ai.EmbedderFactory
	embedder  string
	credCheck func() error
	stats     *Stats
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
	}
}

// WithCredentialCheck installs a credential verification run before uploads,
// so missing or partial credentials surface as their own error kinds.
func WithCredentialCheck(check func() error) Option {
	return func(p *Pipeline) {
		p.credCheck = check
	}
}

// New creates a pipeline. store may be nil for fully local runs; embedderID
// is the "<model>@<revision>" string stamped into every result.
func New(cfg *Config, store storage.ObjectStore, factory ai.EmbedderFactory, embedderID string, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.New("pipeline config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if factory == nil {
		return nil, errors.New("embedder factory is required")
	}
	if store == nil && cfg.needsStore() {
		return nil, errors.New("object store is required for remote paths")
	}

	p := &Pipeline{
		cfg:      cfg,
		store:    store,
		factory:  factory,
		embedder: embedderID,
		stats:    NewStats(),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Stats exposes the run counters for inspection after Run returns.
func (p *Pipeline) Stats() *Stats {
	return p.stats
}

// Preflight reports whether the run is already satisfied and nothing needs
// to be done: the local output exists under --no-overwrite, or the remote
// output exists under --quit-if-s3-output-exists. The caller decides whether
// an already-satisfied run exits; no component ever exits the process.
func (p *Pipeline) Preflight(ctx context.Context) (alreadyDone bool, err error) {
	if p.cfg.NoOverwrite {
		if _, statErr := os.Stat(p.cfg.OutputPath); statErr == nil {
			p.logger.Warn("output path exists and no-overwrite is set",
				"path", p.cfg.OutputPath)
			return true, nil
		}
	}

	if p.cfg.S3OutputPath != "" && p.cfg.QuitIfS3OutputExists {
		uploader := NewUploader(p.store, p.credCheck)
		exists, err := uploader.Exists(ctx, p.cfg.S3OutputPath)
		if err != nil {
			return false, err
		}
		if exists {
			p.logger.Warn("remote output already exists, quitting as requested",
				"path", p.cfg.S3OutputPath)
			return true, nil
		}
	}

	return false, nil
}

// Run executes one pass: stream the input, filter and embed each record,
// write the output, then optionally upload and truncate. Read, parse and
// embed failures abort the run; upload failures are logged and swallowed so
// computed output is never lost to a transient remote issue.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("processing file", "path", p.cfg.InputPath)

	reader, err := OpenLines(ctx, p.store, p.cfg.InputPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	writer, err := NewWriter(p.cfg.OutputPath, p.stats)
	if err != nil {
		return err
	}
	defer writer.Close()

	processor := NewProcessor(p.factory, p.embedder, ProcessorConfig{
		ContentTypes:  p.cfg.ContentTypes,
		MinCharLength: p.cfg.MinCharLength,
		Normalize:     p.cfg.NormalizeEmbeddings,
		IncludeText:   p.cfg.IncludeText,
	}, p.stats)

	for reader.Scan() {
		result, err := processor.Process(ctx, reader.Bytes())
		if err != nil {
			return err
		}
		if err := writer.Write(result); err != nil {
			return err
		}
	}
	if err := reader.Err(); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	p.logger.Info("processing completed",
		"path", p.cfg.InputPath, "lines", reader.Lines())

	if p.cfg.S3OutputPath != "" && !p.cfg.S3OutputDryRun {
		if err := p.uploadOutput(ctx, processor); err != nil {
			return err
		}
	}

	p.logStatistics()
	return nil
}

// uploadOutput runs the existence-gated upload and, on success, the optional
// truncate-to-marker step. Upload failures are logged and swallowed, except
// a failing existence probe, which stays fatal.
func (p *Pipeline) uploadOutput(ctx context.Context, processor *Processor) error {
	uploader := NewUploader(p.store, p.credCheck)

	if err := uploader.Upload(ctx, p.cfg.OutputPath, p.cfg.S3OutputPath); err != nil {
		if errors.Is(err, storage.ErrRemoteProbe) {
			return err
		}
		// The local artifact is intact; rerunning just the upload later
		// recovers without recomputing embeddings.
		p.logger.Error("upload failed", "path", p.cfg.S3OutputPath, "err", err)
		return nil
	}

	if p.cfg.KeepTimestampOnly {
		ts, ok := processor.LastTimestamp()
		if !ok {
			ts = time.Now().UTC()
		}
		if err := stamp.TruncateToMarker(p.cfg.OutputPath, ts); err != nil {
			p.logger.Error("failed to truncate output to marker",
				"path", p.cfg.OutputPath, "err", err)
		}
	}

	return nil
}

// logStatistics logs all counters in sorted order plus the average embedding
// time per valid text.
func (p *Pipeline) logStatistics() {
	snapshot := p.stats.Snapshot()
	for _, key := range p.stats.Keys() {
		p.logger.Info("statistics", "counter", key, "value", snapshot[key])
	}
	p.logger.Info("statistics", "counter", "total_time", "value", p.stats.EmbedTime().Seconds())

	if p.stats.Get(StatValidTexts) > 0 {
		p.logger.Info("average time per valid text",
			"seconds", p.stats.AverageEmbedTime().Seconds())
	}
}
