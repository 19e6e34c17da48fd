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


// Package ai provides the embedding backend abstraction for the text embedder.
//
// The pipeline depends on the Embedder interface rather than any concrete
// client, so the model stays an opaque text-to-vector function. Because
// constructing a backend is expensive (model loading, client setup), the
// pipeline receives an EmbedderFactory and defers construction until the
// first document that actually needs an embedding.
//
// # Implementation Packages
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//     via langchaingo (Ollama, LocalAI, vLLM, text-embeddings-inference)
//   - ai/mock: deterministic test double for unit testing without external
//     services
//
// Public constructors (openai.NewEmbedder) return the ai.Embedder interface
// to enforce abstraction. Test utility constructors (mock.NewMockEmbedder)
// return concrete types to enable behavior injection and call-count
// assertions.
package ai
