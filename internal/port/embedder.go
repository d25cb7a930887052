package port

import "context"

// ModelClient calls an embedding model. The model's native output may be
// longer than the index dimension; truncation is the provider's job, not
// the client's.
type ModelClient interface {
	// Run embeds the given texts, returning one raw vector per input.
	Run(ctx context.Context, texts []string) ([][]float32, error)

	// ModelName returns the name of the embedding model.
	ModelName() string
}

// Embedder produces index-ready vectors of a fixed dimension.
type Embedder interface {
	// Embed generates an embedding for a single text.
	// The result always has exactly Dimension() elements.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int
}

// EmbedCache memoizes text embeddings. A miss is (nil, nil); cache
// failures are treated as misses by the caller, never surfaced.
type EmbedCache interface {
	Get(ctx context.Context, key string) ([]float32, error)
	Put(ctx context.Context, key string, vector []float32) error
}
