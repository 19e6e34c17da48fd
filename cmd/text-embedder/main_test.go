package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func newTestApp() *cli.App {
	return &cli.App{
		Name: "text-embedder",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name: "embed",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "input-path", Required: true},
					&cli.StringFlag{Name: "output-path", Required: true},
					&cli.StringSliceFlag{Name: "content-type", Value: cli.NewStringSlice("ar")},
					&cli.IntFlag{Name: "min-char-length", Value: 400},
					&cli.StringFlag{Name: "model-name", Value: "Alibaba-NLP/gte-multilingual-base"},
					&cli.StringFlag{Name: "embedding-host", Value: "http://localhost:11434/v1"},
					&cli.BoolFlag{Name: "normalize-embeddings"},
				},
				Action: func(c *cli.Context) error { return nil },
			},
		},
	}
}

func TestEmbedCommandFlags(t *testing.T) {
	app := newTestApp()

	t.Run("input-path is required", func(t *testing.T) {
		err := app.Run([]string{"text-embedder", "embed", "--output-path", "/tmp/out.jsonl"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "input-path")
	})

	t.Run("output-path is required", func(t *testing.T) {
		err := app.Run([]string{"text-embedder", "embed", "--input-path", "in.jsonl.bz2"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "output-path")
	})

	t.Run("content-type defaults to ar", func(t *testing.T) {
		app := newTestApp()
		app.Commands[0].Action = func(c *cli.Context) error {
			assert.Equal(t, []string{"ar"}, c.StringSlice("content-type"))
			assert.Equal(t, 400, c.Int("min-char-length"))
			return nil
		}
		err := app.Run([]string{"text-embedder", "embed",
			"--input-path", "in.jsonl.bz2", "--output-path", "out.jsonl"})
		require.NoError(t, err)
	})

	t.Run("content-type is repeatable", func(t *testing.T) {
		app := newTestApp()
		app.Commands[0].Action = func(c *cli.Context) error {
			assert.Equal(t, []string{"ar", "page"}, c.StringSlice("content-type"))
			return nil
		}
		err := app.Run([]string{"text-embedder", "embed",
			"--input-path", "in.jsonl.bz2", "--output-path", "out.jsonl",
			"--content-type", "ar", "--content-type", "page"})
		require.NoError(t, err)
	})

	t.Run("embedding-host has default value", func(t *testing.T) {
		cmd := newTestApp().Commands[0]
		var hostFlag *cli.StringFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "embedding-host" {
				hostFlag = f
				break
			}
		}
		require.NotNil(t, hostFlag)
		assert.Equal(t, "http://localhost:11434/v1", hostFlag.Value)
	})
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "WARN", "Info"} {
			t.Run(level, func(t *testing.T) {
				app := newTestApp()
				app.Commands = nil
				app.Action = func(c *cli.Context) error { return nil }

				err := app.Run([]string{"text-embedder", "--log-level", level})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		app := newTestApp()
		app.Commands = nil
		app.Action = func(c *cli.Context) error { return nil }

		err := app.Run([]string{"text-embedder", "--log-level", "loud"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}
