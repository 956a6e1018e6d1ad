package retrieval

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/profrag/internal/domain"
	domdir "github.com/kailas-cloud/profrag/internal/domain/directory"
	"github.com/kailas-cloud/profrag/internal/domain/fuzzy"
	"github.com/kailas-cloud/profrag/internal/domain/query"
	domret "github.com/kailas-cloud/profrag/internal/domain/retrieval"
)

var errTransient = errors.New("connection reset by peer")

// fakeEmbedder fails the first `fails` calls with err, then returns vec.
type fakeEmbedder struct {
	mu     sync.Mutex
	fails  int
	err    error
	vec    []float32
	tokens int
	block  bool // first call waits for ctx to end
	calls  int
}

func (f *fakeEmbedder) Embed(ctx context.Context, _ string) (domain.EmbeddingResult, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.mu.Unlock()

	if f.block && n == 1 {
		<-ctx.Done()
		return domain.EmbeddingResult{}, ctx.Err()
	}
	if n <= f.fails {
		return domain.EmbeddingResult{}, f.err
	}
	return domain.EmbeddingResult{Embedding: f.vec, TotalTokens: f.tokens}, nil
}

func (f *fakeEmbedder) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type searchCall struct {
	ids  []string
	topK int
}

type searchResponse struct {
	records []domret.Record
	err     error
}

// scriptedSearcher replays responses in order; the last one repeats.
type scriptedSearcher struct {
	mu        sync.Mutex
	responses []searchResponse
	calls     []searchCall
}

func (s *scriptedSearcher) SearchReviews(
	_ context.Context, _ []float32, ids []string, topK int,
) ([]domret.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, searchCall{ids: slices.Clone(ids), topK: topK})
	if len(s.responses) == 0 {
		return nil, nil
	}
	i := min(len(s.calls)-1, len(s.responses)-1)
	return s.responses[i].records, s.responses[i].err
}

type staticDirectory struct {
	records []domdir.Record
}

func (d staticDirectory) Records(context.Context) []domdir.Record {
	return d.records
}

func testConfig() Config {
	return Config{
		TopK:           5,
		MaxSuggestions: 5,
		MaxCandidates:  256,
		Retry: RetryConfig{
			MaxRetries:  2,
			BaseDelay:   time.Millisecond,
			CallTimeout: time.Second,
		},
	}
}

func newTestService(
	t *testing.T, emb Embedder, search VectorSearcher, dir Directory,
) *Service {
	t.Helper()
	return New(
		emb, search, dir,
		query.NewGenerator(query.DefaultHonorifics),
		fuzzy.NewMatcher(fuzzy.NewApproxIndexer(fuzzy.DefaultThreshold), fuzzy.DefaultFieldWeights()),
		testConfig(), zap.NewNop(),
	)
}

func testDirectory() staticDirectory {
	recs, _ := domdir.Expand([]domdir.Entry{
		{ID: "p1", Name: "Prof. Dr. Müller", Department: "Mathematik", Subject: "Statistics"},
		{ID: "p2", Name: "Li Zhang", Department: "Chemie", Subject: "Organic Chemistry"},
	})
	return staticDirectory{records: recs}
}

func review(id, profID, prof string, score float64) domret.Record {
	return domret.Record{ID: id, ProfessorID: profID, Professor: prof, Rating: 4, Review: "Fair exams.", Score: score}
}
