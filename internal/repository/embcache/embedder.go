// Package embcache decorates an embedder with an in-process TTL cache keyed by exact text.
package embcache

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/profrag/internal/domain"
)

// store is the consumer interface for the embedding cache (ISP).
// *cache.TTL[string, []float32] satisfies it.
type store interface {
	Get(key string) ([]float32, bool)
	Set(key string, value []float32)
}

// CachedEmbedder caches successful embeddings. Failures are never cached.
// Returned vectors are shared with the cache and must not be modified.
type CachedEmbedder struct {
	inner      domain.Embedder
	store      store
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Embedder,
	s store,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedEmbedder {
	return &CachedEmbedder{
		inner:      inner,
		store:      s,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Embed returns a cached embedding or calls the inner embedder.
// A hit is reported through Cached with zero tokens; a miss returns the inner result.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if vec, ok := c.store.Get(text); ok {
		c.incCache("hit")
		return domain.EmbeddingResult{Embedding: vec, Cached: true}, nil
	}

	c.incCache("miss")

	result, err := c.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed text: %w", err)
	}

	c.put(text, result.Embedding)
	return result, nil
}

// BatchEmbed serves cached texts from memory and embeds the rest in one inner call.
func (c *CachedEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	out := domain.BatchEmbeddingResult{Embeddings: make([][]float32, len(texts))}

	var (
		missTexts []string
		missIdx   []int
	)
	for i, text := range texts {
		if vec, ok := c.store.Get(text); ok {
			c.incCache("hit")
			out.Embeddings[i] = vec
			continue
		}
		c.incCache("miss")
		missTexts = append(missTexts, text)
		missIdx = append(missIdx, i)
	}

	if len(missTexts) == 0 {
		return out, nil
	}

	res, err := domain.EmbedAll(ctx, c.inner, missTexts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("embed %d uncached texts: %w", len(missTexts), err)
	}

	for j, idx := range missIdx {
		out.Embeddings[idx] = res.Embeddings[j]
		c.put(missTexts[j], res.Embeddings[j])
	}
	out.PromptTokens = res.PromptTokens
	out.TotalTokens = res.TotalTokens

	c.logger.Debug("Batch embedded",
		zap.Int("texts", len(texts)),
		zap.Int("cache_misses", len(missTexts)),
	)
	return out, nil
}

func (c *CachedEmbedder) put(text string, vec []float32) {
	if len(vec) == 0 {
		c.logger.Warn("Skipping empty embedding for cache", zap.Int("text_len", len(text)))
		return
	}
	c.store.Set(text, vec)
}

func (c *CachedEmbedder) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}
