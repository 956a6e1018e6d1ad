package embcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/profrag/internal/cache"
	"github.com/kailas-cloud/profrag/internal/domain"
)

type mockEmbedder struct {
	result     domain.EmbeddingResult
	err        error
	calls      int
	batchCalls int
	batchTexts []string
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	return m.result, m.err
}

// batchEmbedder adds BatchEmbed on top of mockEmbedder.
type batchEmbedder struct {
	*mockEmbedder
}

func (m batchEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.batchCalls++
	m.batchTexts = append(m.batchTexts, texts...)
	if m.err != nil {
		return domain.BatchEmbeddingResult{}, m.err
	}
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = m.result.Embedding
	}
	return domain.BatchEmbeddingResult{
		Embeddings:   embeddings,
		PromptTokens: m.result.PromptTokens * len(texts),
		TotalTokens:  m.result.TotalTokens * len(texts),
	}, nil
}

func newTestCache(t *testing.T) *cache.TTL[string, []float32] {
	t.Helper()
	c, err := cache.NewTTL[string, []float32](16, time.Hour)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	return c
}

func newTestCachedEmbedder(t *testing.T, inner domain.Embedder) (*CachedEmbedder, *cache.TTL[string, []float32]) {
	t.Helper()
	c := newTestCache(t)
	return New(inner, c, nil, zap.NewNop()), c
}
