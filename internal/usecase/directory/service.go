// Package directory serves the expanded professor directory used for name resolution.
package directory

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/profrag/internal/domain"
	domdir "github.com/kailas-cloud/profrag/internal/domain/directory"
	"github.com/kailas-cloud/profrag/internal/metrics"
)

// cacheKey is the single slot the whole expanded directory lives under.
const cacheKey = "directory"

// maxPages bounds pagination against a source that never ends its listing.
const maxPages = 10000

// Service loads, expands and caches the professor directory.
type Service struct {
	source Source
	cache  Cache
	group  singleflight.Group
	logger *zap.Logger
}

// New creates a directory service.
func New(source Source, cache Cache, logger *zap.Logger) *Service {
	return &Service{source: source, cache: cache, logger: logger}
}

// Records returns the expanded directory, loading it on a cache miss.
// A failed load yields an empty list and caches nothing; it is never an error.
func (s *Service) Records(ctx context.Context) []domdir.Record {
	if records, ok := s.cache.Get(cacheKey); ok {
		metrics.DirectoryCacheTotal.WithLabelValues("hit").Inc()
		return records
	}
	metrics.DirectoryCacheTotal.WithLabelValues("miss").Inc()

	// Concurrent misses share one load. The load is detached from the first
	// caller's cancellation so one aborted request does not fail the others.
	ch := s.group.DoChan(cacheKey, func() (any, error) {
		return s.load(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		s.logger.Warn("Directory load abandoned", zap.Error(ctx.Err()))
		return []domdir.Record{}
	case res := <-ch:
		if res.Err != nil {
			s.logger.Warn("Directory unavailable, continuing without fuzzy candidates", zap.Error(res.Err))
			return []domdir.Record{}
		}
		records, _ := res.Val.([]domdir.Record)
		return records
	}
}

func (s *Service) load(ctx context.Context) ([]domdir.Record, error) {
	entries, err := s.fetchAll(ctx)
	if err != nil {
		metrics.DirectoryLoadsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	records, skipped := domdir.Expand(entries)
	for _, e := range skipped {
		s.logger.Warn("Skipping directory entry without name", zap.String("professor_id", e.ID))
	}

	s.cache.Set(cacheKey, records)
	metrics.DirectoryLoadsTotal.WithLabelValues("success").Inc()
	metrics.DirectoryRecords.Set(float64(len(records)))

	s.logger.Info("Directory loaded",
		zap.Int("entries", len(entries)),
		zap.Int("records", len(records)),
		zap.Int("skipped", len(skipped)),
	)
	return records, nil
}

// fetchAll drains every page before returning so a mid-listing failure caches nothing.
func (s *Service) fetchAll(ctx context.Context) ([]domdir.Entry, error) {
	var (
		entries []domdir.Entry
		token   string
	)
	for page := 0; ; page++ {
		if page >= maxPages {
			return nil, fmt.Errorf("%w: listing exceeded %d pages", domain.ErrDirectoryUnavailable, maxPages)
		}

		p, err := s.source.FetchPage(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("fetch directory page %d: %w: %w", page, domain.ErrDirectoryUnavailable, err)
		}
		entries = append(entries, p.Entries...)

		if p.NextToken == "" {
			return entries, nil
		}
		token = p.NextToken
	}
}
