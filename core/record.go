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


package core

import (
	"time"
	"unicode/utf8"
)

// Document is one input record decoded from a JSONL line.
// Missing fields decode to their zero values; no schema is enforced
// beyond field presence.
type Document struct {
	ID       string `json:"id"`
	Type     string `json:"tp"`
	FullText string `json:"ft"`
	Language string `json:"lang"`
}

// TextLength returns the character (rune) count of the full text.
func (d *Document) TextLength() int {
	return utf8.RuneCountInString(d.FullText)
}

// Result is the normalized output unit written per qualifying document.
// Field order matches the wire format: id, ts, embedder, len, text, embedding.
type Result struct {
	ID       string `json:"id"`
	TS       string `json:"ts"`
	Embedder string `json:"embedder"`
	Length   int    `json:"len"`
	// Text is included only when explicitly requested.
	Text      string    `json:"text,omitempty"`
	Embedding []float64 `json:"embedding"`
}

// TimestampFormat renders a timestamp the way results carry them:
// UTC, second precision, trailing "Z".
func TimestampFormat(ts time.Time) string {
	return ts.UTC().Truncate(time.Second).Format("2006-01-02T15:04:05") + "Z"
}
