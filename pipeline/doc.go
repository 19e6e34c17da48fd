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


// Package pipeline implements the streaming document-embedding pass.
//
// One run is a single sequential pull-based pipeline over a compressed JSONL
// source: LineReader yields lines in source order, Processor filters each
// decoded document and computes an embedding for the ones that qualify,
// Writer appends result records as compact JSON lines, and Stats observes
// every step. After the stream is drained, the existence-gated Uploader
// optionally ships the artifact to object storage, never overwriting a
// previously produced remote object, and can replace the local copy with a
// zero-byte timestamped marker.
//
// The embedding backend is a single exclusively-owned resource: it is
// constructed lazily on the first qualifying record and never invoked
// concurrently, which is also why records are processed strictly one at a
// time and output order always matches input order.
//
// Failure asymmetry: anything that prevents reading or computing (unreadable
// source, malformed JSON, backend errors) aborts the run; anything that only
// prevents uploading is logged and swallowed, because the computed local
// output remains valid and the upload can be rerun later.
package pipeline
