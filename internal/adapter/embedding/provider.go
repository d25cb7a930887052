package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"

	"docsearch/internal/domain"
	"docsearch/internal/port"
)

// Provider turns raw model output into index-ready vectors of a fixed
// dimension. Models trained for matryoshka-style embeddings emit more
// dimensions than the index stores; the leading dimensions carry the most
// information, so the provider keeps a prefix and never resamples.
type Provider struct {
	model     port.ModelClient
	dimension int
	cache     port.EmbedCache
}

// NewProvider creates a provider over the given model client. cache may be
// nil to disable embedding memoization.
func NewProvider(model port.ModelClient, dimension int, cache port.EmbedCache) *Provider {
	return &Provider{
		model:     model,
		dimension: dimension,
		cache:     cache,
	}
}

// Embed implements port.Embedder. The returned vector has exactly
// Dimension() elements; a model output shorter than that is an error,
// never padded.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	key := p.cacheKey(text)
	if p.cache != nil {
		if vec, err := p.cache.Get(ctx, key); err != nil {
			log.Printf("[embedding] cache get failed: %v", err)
		} else if len(vec) == p.dimension {
			return vec, nil
		}
	}

	raw, err := p.model.Run(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 || raw[0] == nil {
		return nil, fmt.Errorf("%w: model %s returned no embedding", domain.ErrEmbedding, p.model.ModelName())
	}

	vec := raw[0]
	if len(vec) < p.dimension {
		return nil, fmt.Errorf("%w: model %s returned %d dimensions, need %d",
			domain.ErrEmbedding, p.model.ModelName(), len(vec), p.dimension)
	}

	out := make([]float32, p.dimension)
	copy(out, vec[:p.dimension])

	if p.cache != nil {
		if err := p.cache.Put(ctx, key, out); err != nil {
			log.Printf("[embedding] cache put failed: %v", err)
		}
	}

	return out, nil
}

// Dimension implements port.Embedder.
func (p *Provider) Dimension() int {
	return p.dimension
}

// cacheKey derives a stable key from model name, dimension, and text, so
// a model or dimension change invalidates prior entries. The cache may be
// shared across deploys (Redis), so the key must pin everything that
// shapes the vector.
func (p *Provider) cacheKey(text string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%d\x00", p.model.ModelName(), p.dimension)
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil)[:16])
}
