package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use, and deterministic:
// identical input and model version yield identical vectors.
type Embedder interface {
	// EmbedText generates a vector embedding for a single document text.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple texts in a batch.
	// Batch processing is more efficient than calling EmbedText repeatedly.
	// The returned slice contains embeddings in input order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery generates a vector embedding for a search query.
	// Implementations may apply a model-specific instruction prefix that
	// improves retrieval-oriented encoding; for symmetric models this is
	// identical to EmbedText.
	EmbedQuery(ctx context.Context, query string) ([]float32, error)
}
