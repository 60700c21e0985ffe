package embed

import (
	"context"

	"github.com/shraddha-r0/financial-rag-graph/internal/infrastructure/cache"
	"github.com/shraddha-r0/financial-rag-graph/internal/ports"
)

// CachedEmbedder wraps a backend with the on-disk vector cache. Cache
// failures are silent; the wrapped backend is always the source of truth.
type CachedEmbedder struct {
	inner ports.Embedder
	cache *cache.VectorCache
}

// WithCache wraps the embedder. A nil cache returns the embedder unchanged.
func WithCache(inner ports.Embedder, vc *cache.VectorCache) ports.Embedder {
	if vc == nil {
		return inner
	}
	return &CachedEmbedder{inner: inner, cache: vc}
}

// Embed implements ports.Embedder.
func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if vector, ok := e.cache.Get(e.inner.Name(), text); ok {
		return vector, nil
	}
	vector, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	_ = e.cache.Set(e.inner.Name(), text, vector)
	return vector, nil
}

// EmbedBatch serves cached texts locally and forwards only the misses.
func (e *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int
	for i, text := range texts {
		if vector, ok := e.cache.Get(e.inner.Name(), text); ok {
			vectors[i] = vector
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}
	if len(missing) == 0 {
		return vectors, nil
	}

	fetched, err := e.inner.EmbedBatch(ctx, missing)
	if err != nil {
		return nil, err
	}
	for j, vector := range fetched {
		vectors[missingIdx[j]] = vector
		_ = e.cache.Set(e.inner.Name(), missing[j], vector)
	}
	return vectors, nil
}

func (e *CachedEmbedder) Dimensions() int {
	return e.inner.Dimensions()
}

func (e *CachedEmbedder) Name() string {
	return e.inner.Name()
}

// HealthCheck forwards to the wrapped backend when it supports one.
func (e *CachedEmbedder) HealthCheck(ctx context.Context) error {
	if hc, ok := e.inner.(ports.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

var _ ports.Embedder = (*CachedEmbedder)(nil)
