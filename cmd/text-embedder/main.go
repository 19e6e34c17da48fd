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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/impresso/impresso-text-embedder/ai"
	"github.com/impresso/impresso-text-embedder/ai/openai"
	"github.com/impresso/impresso-text-embedder/pipeline"
	"github.com/impresso/impresso-text-embedder/stamp"
	"github.com/impresso/impresso-text-embedder/storage"
	s3store "github.com/impresso/impresso-text-embedder/storage/s3"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "text-embedder",
		Usage: "Compute semantic embeddings for compressed JSONL document streams",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "embed",
				Usage:  "Process a compressed JSONL file from S3 or local disk and output embeddings",
				Action: embedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input-path",
						Usage:    "S3 path in the format s3://BUCKET/KEY or local path to compressed JSONL file",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "output-path",
						Usage:    "Local output file path",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "no-overwrite",
						Usage: "Do not overwrite the output file if it exists; no processing is done and no error is raised",
					},
					&cli.StringFlag{
						Name:  "s3-output-path",
						Usage: "Upload the local output file to this S3 path after processing",
					},
					&cli.BoolFlag{
						Name:  "s3-output-dry-run",
						Usage: "Do not upload the local output file, even if --s3-output-path is set",
					},
					&cli.BoolFlag{
						Name:  "quit-if-s3-output-exists",
						Usage: "Quit without processing if the output file already exists in S3",
					},
					&cli.BoolFlag{
						Name:  "keep-timestamp-only",
						Usage: "After uploading to S3, replace the local output file with a zero-byte timestamped marker",
					},
					&cli.StringFlag{
						Name:  "model-name",
						Usage: "Name of the embedding model",
						Value: "Alibaba-NLP/gte-multilingual-base",
					},
					&cli.StringFlag{
						Name:  "model-revision",
						Usage: "Revision of the embedding model",
						Value: "main",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "OpenAI-compatible embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringSliceFlag{
						Name:  "content-type",
						Usage: "Content types to embed; all others are skipped",
						Value: cli.NewStringSlice("ar"),
					},
					&cli.IntFlag{
						Name:  "min-char-length",
						Usage: "Minimum character length of a text to be embedded",
						Value: 400,
					},
					&cli.BoolFlag{
						Name:  "normalize-embeddings",
						Usage: "Normalize embeddings to unit vectors",
					},
					&cli.BoolFlag{
						Name:  "include-text",
						Usage: "Include the raw text in the output records for debugging",
					},
				},
			},
			{
				Name:      "stamp",
				Usage:     "Mirror S3 objects as local stamp files carrying their last-modified timestamps",
				ArgsUsage: "s3://BUCKET/PREFIX",
				Action:    stampCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "local-dir",
						Usage: "Local directory prefix for creating stamp files",
						Value: "./",
					},
					&cli.BoolFlag{
						Name:  "no-bucket",
						Usage: "Do not include the bucket name in local file paths, only the key",
					},
					&cli.StringFlag{
						Name:  "stamp-extension",
						Usage: "Append this extension to all stamp files created (preceding dot must be specified)",
						Value: ".stamp",
					},
					&cli.BoolFlag{
						Name:  "write-content",
						Usage: "Write the content of the S3 objects into the stamp files",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent stamp-creation workers",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func embedCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg := &pipeline.Config{
		InputPath:            c.String("input-path"),
		OutputPath:           c.String("output-path"),
		NoOverwrite:          c.Bool("no-overwrite"),
		S3OutputPath:         c.String("s3-output-path"),
		S3OutputDryRun:       c.Bool("s3-output-dry-run"),
		QuitIfS3OutputExists: c.Bool("quit-if-s3-output-exists"),
		KeepTimestampOnly:    c.Bool("keep-timestamp-only"),
		ContentTypes:         c.StringSlice("content-type"),
		MinCharLength:        c.Int("min-char-length"),
		NormalizeEmbeddings:  c.Bool("normalize-embeddings"),
		IncludeText:          c.Bool("include-text"),
	}

	if cfg.KeepTimestampOnly && cfg.S3OutputPath == "" {
		slog.Warn("option --keep-timestamp-only is ignored without --s3-output-path")
	}
	if cfg.QuitIfS3OutputExists && cfg.S3OutputPath == "" {
		slog.Warn("option --quit-if-s3-output-exists is ignored without --s3-output-path")
	}

	aiCfg := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithModel(c.String("model-name")),
		ai.WithRevision(c.String("model-revision")),
	)
	if err := aiCfg.Validate(); err != nil {
		return fmt.Errorf("invalid embedding configuration: %w", err)
	}

	// Construction is deferred until the first record that needs embedding;
	// some inputs contain no valid text at all.
	factory := func() (ai.Embedder, error) {
		slog.Info("initializing embedding backend", "embedder", aiCfg.Identifier())
		return openai.NewEmbedder(aiCfg)
	}

	opts := []pipeline.Option{}
	var store storage.ObjectStore
	if storage.IsRemote(cfg.InputPath) || cfg.S3OutputPath != "" {
		s3Cfg := s3store.ConfigFromEnv()
		var err error
		store, err = s3store.NewStore(ctx, s3Cfg)
		if err != nil {
			return fmt.Errorf("failed to create object store: %w", err)
		}
		opts = append(opts, pipeline.WithCredentialCheck(s3Cfg.CheckCredentials))
	}

	p, err := pipeline.New(cfg, store, factory, aiCfg.Identifier(), opts...)
	if err != nil {
		return err
	}

	alreadyDone, err := p.Preflight(ctx)
	if err != nil {
		return err
	}
	if alreadyDone {
		// Intentional early exit with status 0.
		return nil
	}

	return p.Run(ctx)
}

func stampCommand(c *cli.Context) error {
	ctx := context.Background()

	locator := c.Args().First()
	if locator == "" {
		return fmt.Errorf("an s3://BUCKET/PREFIX argument is required")
	}

	s3Cfg := s3store.ConfigFromEnv()
	store, err := s3store.NewStore(ctx, s3Cfg)
	if err != nil {
		return fmt.Errorf("failed to create object store: %w", err)
	}

	cfg := stamp.DefaultMirrorConfig()
	cfg.LocalDir = c.String("local-dir")
	cfg.IncludeBucket = !c.Bool("no-bucket")
	cfg.Extension = c.String("stamp-extension")
	cfg.WriteContent = c.Bool("write-content")
	if workers := c.Int("workers"); workers > 0 {
		cfg.Workers = workers
	}

	mirror, err := stamp.NewMirror(store, cfg)
	if err != nil {
		return err
	}
	defer mirror.Release()

	return mirror.Run(ctx, locator)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
