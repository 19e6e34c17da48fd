package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations are stateful and expensive to construct; the pipeline owns a
// single instance and never invokes it concurrently.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// EmbedderFactory constructs an Embedder on first use. Construction may load
// model weights or open network clients, so callers defer it until an
// embedding is actually needed.
type EmbedderFactory func() (Embedder, error)
