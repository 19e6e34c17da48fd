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
	"fmt"
	"sort"
	"time"
)

// Fixed counter names. Dynamically named counters (per content type, per
// language, per length bucket) are derived with the key helpers below.
const (
	// StatValidTexts counts documents that passed both filters and were embedded.
	StatValidTexts = "valid_texts"
	// StatShortTexts counts documents whose text was empty or at/below the
	// minimum length threshold.
	StatShortTexts = "short_texts"
	// StatRecordsWritten counts result records written to the output stream.
	// One output file carries many records, so this counts lines, not files.
	StatRecordsWritten = "records_written"
)

// charBucketWidth is the histogram bin width for text lengths.
const charBucketWidth = 5000

// SkippedTypeKey returns the counter key for documents skipped because of
// their content type.
func SkippedTypeKey(contentType string) string {
	return "skipped_type_" + contentType
}

// ValidLangKey returns the per-language counter key for valid documents.
func ValidLangKey(lang string) string {
	return "valid_texts_lg_" + lang
}

// CharBucketKey returns the length-histogram counter key for a text of the
// given character count. Buckets are 5000 characters wide, rounded up.
func CharBucketKey(length int) string {
	bucket := (length + charBucketWidth - 1) / charBucketWidth * charBucketWidth
	return fmt.Sprintf("char_count_bucket_5k_%d", bucket)
}

// Stats accumulates run counters. It is owned by one pipeline run and is not
// safe for concurrent use; the pipeline is a single sequential pass, so no
// locking is needed.
type Stats struct {
	counts    map[string]int64
	embedTime time.Duration
}

// NewStats creates an empty counter set.
func NewStats() *Stats {
	return &Stats{counts: make(map[string]int64)}
}

// Inc increments the named counter by one.
func (s *Stats) Inc(key string) {
	s.counts[key]++
}

// Get returns the current value of the named counter.
func (s *Stats) Get(key string) int64 {
	return s.counts[key]
}

// AddEmbedTime accumulates wall time spent inside the embedding backend.
func (s *Stats) AddEmbedTime(d time.Duration) {
	s.embedTime += d
}

// EmbedTime returns the total wall time spent embedding.
func (s *Stats) EmbedTime() time.Duration {
	return s.embedTime
}

// AverageEmbedTime returns the mean embedding time per valid text, or zero
// when no text was embedded.
func (s *Stats) AverageEmbedTime() time.Duration {
	valid := s.Get(StatValidTexts)
	if valid == 0 {
		return 0
	}
	return s.embedTime / time.Duration(valid)
}

// Keys returns all counter names in sorted order.
func (s *Stats) Keys() []string {
	keys := make([]string, 0, len(s.counts))
	for k := range s.counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of all counters.
func (s *Stats) Snapshot() map[string]int64 {
	out := make(map[string]int64, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out
}
