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
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/impresso/impresso-text-embedder/ai"
	"github.com/impresso/impresso-text-embedder/core"
)

// Processor filters decoded documents and computes embeddings for the ones
// that qualify. It owns the embedding backend handle and constructs it
// lazily, at most once per run, deferred until the first document that
// passes the content-type filter.
type Processor struct {
	factory    ai.EmbedderFactory
	embedder   ai.Embedder
	embedderID string

	allowed       map[string]struct{}
	minCharLength int
	normalize     bool
	includeText   bool

	stats  *Stats
	logger *slog.Logger

	lastTimestamp time.Time
}

// ProcessorConfig holds the filtering and output options for a Processor.
type ProcessorConfig struct {
	// ContentTypes is the allow-set of document type tags ("tp" field).
	ContentTypes []string
	// MinCharLength is the minimum character count; texts at or below it are
	// counted as short and discarded.
	MinCharLength int
	// Normalize scales embeddings to unit length before rounding.
	Normalize bool
	// IncludeText copies the raw source text into each result record.
	IncludeText bool
}

// NewProcessor creates a processor. The factory is invoked at most once, on
// the first document whose content type is allowed; runs where every record
// is filtered out never construct the backend.
func NewProcessor(factory ai.EmbedderFactory, embedderID string, cfg ProcessorConfig, stats *Stats) *Processor {
	allowed := make(map[string]struct{}, len(cfg.ContentTypes))
	for _, tp := range cfg.ContentTypes {
		allowed[tp] = struct{}{}
	}

	return &Processor{
		factory:       factory,
		embedderID:    embedderID,
		allowed:       allowed,
		minCharLength: cfg.MinCharLength,
		normalize:     cfg.Normalize,
		includeText:   cfg.IncludeText,
		stats:         stats,
		logger:        slog.Default().With("component", "processor"),
	}
}

// Process decodes one JSONL line and either returns a result record or nil
// when the document is filtered out. A JSON decode failure is fatal for the
// run and wraps core.ErrMalformedRecord.
func (p *Processor) Process(ctx context.Context, line []byte) (*core.Result, error) {
	var doc core.Document
	if err := json.Unmarshal(line, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMalformedRecord, err)
	}

	if _, ok := p.allowed[doc.Type]; !ok {
		// Skipped before backend initialization: runs over fully filtered
		// input never pay the model loading cost.
		p.stats.Inc(SkippedTypeKey(doc.Type))
		return nil, nil
	}

	if p.embedder == nil {
		embedder, err := p.factory()
		if err != nil {
			return nil, fmt.Errorf("initialize embedding backend: %w", err)
		}
		p.embedder = embedder
	}

	p.logger.Debug("computing embedding", "id", doc.ID)

	textLen := doc.TextLength()
	if doc.FullText == "" || textLen <= p.minCharLength {
		p.stats.Inc(StatShortTexts)
		return nil, nil
	}

	p.stats.Inc(StatValidTexts)
	p.stats.Inc(ValidLangKey(doc.Language))
	p.stats.Inc(CharBucketKey(textLen))

	start := time.Now()
	vector, err := p.embedder.EmbedText(ctx, doc.FullText)
	if err != nil {
		return nil, fmt.Errorf("embed document %s: %w", doc.ID, err)
	}
	p.stats.AddEmbedTime(time.Since(start))

	// The run's "last timestamp" is taken when embedding completed, not when
	// the record was read; it later becomes the marker mtime.
	p.lastTimestamp = time.Now().UTC().Truncate(time.Second)

	if valid := p.stats.Get(StatValidTexts); valid%100 == 0 {
		p.logger.Info("processed valid texts", "count", valid)
	}

	if p.normalize {
		vector = Normalize(vector)
	}

	result := &core.Result{
		ID:        doc.ID,
		TS:        core.TimestampFormat(p.lastTimestamp),
		Embedder:  p.embedderID,
		Length:    textLen,
		Embedding: Round5(vector),
	}
	if p.includeText {
		result.Text = doc.FullText
	}

	p.logger.Debug("computed embedding", "id", result.ID)
	return result, nil
}

// LastTimestamp returns the completion time of the most recent embedding and
// whether any embedding was computed at all.
func (p *Processor) LastTimestamp() (time.Time, bool) {
	return p.lastTimestamp, !p.lastTimestamp.IsZero()
}

// BackendInitialized reports whether the embedding backend was constructed.
func (p *Processor) BackendInitialized() bool {
	return p.embedder != nil
}
