// Package retrieval resolves a chat question to professor candidates and the review
// context handed to the language model.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/profrag/internal/domain"
	domdir "github.com/kailas-cloud/profrag/internal/domain/directory"
	"github.com/kailas-cloud/profrag/internal/domain/fuzzy"
	domret "github.com/kailas-cloud/profrag/internal/domain/retrieval"
	"github.com/kailas-cloud/profrag/internal/domain/search/filter"
	"github.com/kailas-cloud/profrag/internal/metrics"
)

// Config tunes retrieval.
type Config struct {
	TopK           int
	MaxSuggestions int
	// MaxCandidates caps the professor ids in one search filter; the best-scored ids are kept.
	MaxCandidates int
	Retry         RetryConfig
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		TopK:           5,
		MaxSuggestions: 5,
		MaxCandidates:  256,
		Retry:          DefaultRetryConfig(),
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.TopK <= 0 {
		c.TopK = d.TopK
	}
	if c.MaxSuggestions <= 0 {
		c.MaxSuggestions = d.MaxSuggestions
	}
	if c.MaxCandidates <= 0 || c.MaxCandidates > filter.MaxValuesPerCondition {
		c.MaxCandidates = d.MaxCandidates
	}
	if c.Retry.MaxRetries < 0 {
		c.Retry.MaxRetries = 0
	}
	return c
}

// Service fuses fuzzy name resolution with semantic review search.
type Service struct {
	embed    Embedder
	search   VectorSearcher
	dir      Directory
	patterns PatternGenerator
	matcher  CandidateMatcher
	cfg      Config
	logger   *zap.Logger
}

// New creates a retrieval service.
func New(
	embed Embedder, search VectorSearcher, dir Directory,
	patterns PatternGenerator, matcher CandidateMatcher,
	cfg Config, logger *zap.Logger,
) *Service {
	return &Service{
		embed:    embed,
		search:   search,
		dir:      dir,
		patterns: patterns,
		matcher:  matcher,
		cfg:      cfg.withDefaults(),
		logger:   logger,
	}
}

// Retrieve embeds query and returns the topK nearest reviews, restricted to candidateIDs
// when there are any. A filtered search that finds nothing is repeated without the filter.
// Finding nothing at all is reported through Context.Empty, not as an error.
func (s *Service) Retrieve(ctx context.Context, query string, candidateIDs []string) (domret.Context, error) {
	if strings.TrimSpace(query) == "" {
		return domret.Context{}, fmt.Errorf("%w: query is empty", domain.ErrInvalidQuery)
	}

	vec, err := s.embedQuery(ctx, query)
	if err != nil {
		return domret.Context{}, err
	}

	if len(candidateIDs) > s.cfg.MaxCandidates {
		candidateIDs = candidateIDs[:s.cfg.MaxCandidates]
	}
	return s.searchWithFallback(ctx, vec, candidateIDs)
}

// Resolve runs the whole pipeline for one question: directory load and query embedding in
// parallel, then pattern generation, fuzzy matching and the filtered search with fallback.
func (s *Service) Resolve(ctx context.Context, query string) (domret.Resolution, error) {
	if strings.TrimSpace(query) == "" {
		return domret.Resolution{}, fmt.Errorf("%w: query is empty", domain.ErrInvalidQuery)
	}

	var (
		records []domdir.Record
		vec     []float32
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records = s.dir.Records(gctx)
		return nil
	})
	g.Go(func() error {
		v, err := s.embedQuery(gctx, query)
		if err != nil {
			return err
		}
		vec = v
		return nil
	})
	if err := g.Wait(); err != nil {
		return domret.Resolution{}, err
	}

	patterns := s.patterns.Patterns(query)
	candidates := s.matcher.Match(patterns, records)
	metrics.RetrievalCandidates.Observe(float64(len(candidates)))

	ranked := rankByScore(candidates)
	ids := fuzzy.IDs(ranked)
	if len(ids) > s.cfg.MaxCandidates {
		ids = ids[:s.cfg.MaxCandidates]
	}

	rc, err := s.searchWithFallback(ctx, vec, ids)
	if err != nil {
		return domret.Resolution{}, err
	}

	s.logger.Debug("Query resolved",
		zap.Int("patterns", len(patterns)),
		zap.Int("directory_records", len(records)),
		zap.Int("candidates", len(candidates)),
		zap.Int("records", len(rc.Records)),
		zap.Bool("fell_back", rc.FellBack),
	)

	return domret.Resolution{
		Query:       query,
		Patterns:    patterns,
		Candidates:  candidates,
		Suggestions: suggestions(ranked, records, s.cfg.MaxSuggestions),
		Context:     rc,
	}, nil
}

func (s *Service) embedQuery(ctx context.Context, query string) ([]float32, error) {
	res, err := withRetry(ctx, s.cfg.Retry, "embed", s.logger,
		func(ctx context.Context) (domain.EmbeddingResult, error) {
			return s.embed.Embed(ctx, query)
		})
	if err != nil {
		if errors.Is(err, domain.ErrEmbeddingProviderError) {
			return nil, fmt.Errorf("embed query: %w", err)
		}
		return nil, fmt.Errorf("embed query: %w: %w", domain.ErrEmbeddingProviderError, err)
	}
	if len(res.Embedding) == 0 {
		return nil, fmt.Errorf("embed query: empty vector: %w", domain.ErrEmbeddingProviderError)
	}

	domain.UsageFromContext(ctx).Record(res)
	return res.Embedding, nil
}

func (s *Service) searchWithFallback(ctx context.Context, vec []float32, ids []string) (domret.Context, error) {
	filtered := len(ids) > 0

	records, err := s.searchReviews(ctx, vec, ids)
	if err != nil {
		return domret.Context{}, err
	}

	rc := domret.Context{Records: records, Filtered: filtered}

	if filtered && len(records) == 0 {
		metrics.RetrievalFallbacksTotal.Inc()
		s.logger.Info("Filtered search empty, falling back to unfiltered search",
			zap.Int("candidates", len(ids)),
		)

		records, err = s.searchReviews(ctx, vec, nil)
		if err != nil {
			return domret.Context{}, err
		}
		rc = domret.Context{Records: records, FellBack: true}
	}

	if rc.Empty() {
		metrics.RetrievalEmptyTotal.Inc()
	}
	return rc, nil
}

func (s *Service) searchReviews(ctx context.Context, vec []float32, ids []string) ([]domret.Record, error) {
	records, err := withRetry(ctx, s.cfg.Retry, "search", s.logger,
		func(ctx context.Context) ([]domret.Record, error) {
			return s.search.SearchReviews(ctx, vec, ids, s.cfg.TopK)
		})
	if err != nil {
		return nil, fmt.Errorf("search reviews: %w: %w", domain.ErrVectorStoreUnavailable, err)
	}
	return records, nil
}

// rankByScore orders candidates best first. Equal scores rank more matched fields first,
// then keep first-seen order.
func rankByScore(candidates []fuzzy.Candidate) []fuzzy.Candidate {
	ranked := slices.Clone(candidates)
	slices.SortStableFunc(ranked, func(a, b fuzzy.Candidate) int {
		switch {
		case a.Score < b.Score:
			return -1
		case a.Score > b.Score:
			return 1
		}
		return b.Fields - a.Fields
	})
	return ranked
}

// suggestions returns the original full name of up to limit ranked candidates.
// The first record of an id carries its original spelling.
func suggestions(ranked []fuzzy.Candidate, records []domdir.Record, limit int) []string {
	names := make(map[string]string, len(ranked))
	for _, r := range records {
		if _, ok := names[r.ID]; !ok {
			names[r.ID] = r.FullName
		}
	}

	out := make([]string, 0, min(limit, len(ranked)))
	for _, c := range ranked {
		if len(out) == limit {
			break
		}
		if name, ok := names[c.ID]; ok {
			out = append(out, name)
		}
	}
	return out
}
