package ingest

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/profrag/internal/domain"
	domdir "github.com/kailas-cloud/profrag/internal/domain/directory"
	"github.com/kailas-cloud/profrag/internal/domain/review"
)

type fakeProfessors struct {
	ensureErr error
	saveErr   error
	ensured   int
	saved     []domdir.Entry
}

func (f *fakeProfessors) EnsureIndex(context.Context) error {
	f.ensured++
	return f.ensureErr
}

func (f *fakeProfessors) Save(_ context.Context, entries []domdir.Entry) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, entries...)
	return nil
}

type fakeReviews struct {
	ensureErr error
	saveErr   error
	ensured   int
	batches   [][]review.Review
}

func (f *fakeReviews) EnsureIndex(context.Context) error {
	f.ensured++
	return f.ensureErr
}

func (f *fakeReviews) Save(_ context.Context, reviews []review.Review) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.batches = append(f.batches, append([]review.Review(nil), reviews...))
	return nil
}

func (f *fakeReviews) all() []review.Review {
	var out []review.Review
	for _, b := range f.batches {
		out = append(out, b...)
	}
	return out
}

// fakeBatchEmbedder returns a one-dimensional vector holding the text length.
type fakeBatchEmbedder struct {
	mu    sync.Mutex
	err   error
	calls [][]string
}

func (f *fakeBatchEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	res, err := f.BatchEmbed(ctx, []string{text})
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	return domain.EmbeddingResult{Embedding: res.Embeddings[0], TotalTokens: res.TotalTokens}, nil
}

func (f *fakeBatchEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string(nil), texts...))
	if f.err != nil {
		return domain.BatchEmbeddingResult{}, f.err
	}
	out := domain.BatchEmbeddingResult{Embeddings: make([][]float32, len(texts))}
	for i, t := range texts {
		out.Embeddings[i] = []float32{float32(len(t))}
		out.TotalTokens += len(strings.Fields(t))
	}
	out.PromptTokens = out.TotalTokens
	return out, nil
}

func newTestService() (*Service, *fakeProfessors, *fakeReviews, *fakeBatchEmbedder) {
	p := &fakeProfessors{}
	r := &fakeReviews{}
	e := &fakeBatchEmbedder{}
	return New(p, r, e, zap.NewNop()), p, r, e
}

const sampleYAML = `
professors:
  - id: p1
    name: "Prof. Dr. Anna Müller"
    department: Mathematik
    subject: Statistik
    reviews:
      - id: r1
        rating: 4.5
        text: "Clear lectures on regression"
      - rating: 3
        text: "Hard exams"
      - rating: 2
        text: "   "
  - id: p2
    name: "Li Zhang"
    department: Chemie
    subject: Organic Chemistry
    reviews:
      - id: r9
        rating: 5
        text: "Great lab sessions"
`
