package retrieval

import (
	"context"

	"github.com/kailas-cloud/profrag/internal/domain"
	domdir "github.com/kailas-cloud/profrag/internal/domain/directory"
	"github.com/kailas-cloud/profrag/internal/domain/fuzzy"
	domret "github.com/kailas-cloud/profrag/internal/domain/retrieval"
)

// Embedder vectorizes the user query. The composition root passes the cached embedder.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// VectorSearcher finds the reviews nearest to a vector, optionally restricted to professors.
type VectorSearcher interface {
	SearchReviews(ctx context.Context, vector []float32, professorIDs []string, topK int) ([]domret.Record, error)
}

// Directory serves the expanded professor directory. It never fails; an unavailable
// directory is an empty one.
type Directory interface {
	Records(ctx context.Context) []domdir.Record
}

// PatternGenerator expands a query into fuzzy search patterns.
type PatternGenerator interface {
	Patterns(raw string) []string
}

// CandidateMatcher resolves patterns to professor candidates.
type CandidateMatcher interface {
	Match(patterns []string, records []domdir.Record) []fuzzy.Candidate
}
