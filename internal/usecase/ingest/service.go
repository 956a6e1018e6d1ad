// Package ingest loads a professor and review dataset into the directory and vector indexes.
package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/profrag/internal/domain"
	domdir "github.com/kailas-cloud/profrag/internal/domain/directory"
	"github.com/kailas-cloud/profrag/internal/domain/review"
)

// DefaultBatchSize is the number of reviews embedded and written per round.
const DefaultBatchSize = 128

// Report summarizes one ingestion run.
type Report struct {
	RunID             string `json:"run_id"`
	Professors        int    `json:"professors"`
	SkippedProfessors int    `json:"skipped_professors"`
	Reviews           int    `json:"reviews"`
	SkippedReviews    int    `json:"skipped_reviews"`
	TotalTokens       int    `json:"total_tokens"`
}

// Service ingests datasets.
type Service struct {
	professors ProfessorStore
	reviews    ReviewStore
	embed      domain.Embedder
	batchSize  int
	logger     *zap.Logger
}

// New creates an ingestion service. embed may implement domain.BatchEmbedder.
func New(professors ProfessorStore, reviews ReviewStore, embed domain.Embedder, logger *zap.Logger) *Service {
	return &Service{
		professors: professors,
		reviews:    reviews,
		embed:      embed,
		batchSize:  DefaultBatchSize,
		logger:     logger,
	}
}

// WithBatchSize overrides the review batch size. Non-positive values are ignored.
func (s *Service) WithBatchSize(n int) *Service {
	if n > 0 {
		s.batchSize = n
	}
	return s
}

// Ingest ensures both indexes exist, writes professors, then embeds and writes reviews in batches.
// Professors without a name and reviews without text are skipped.
func (s *Service) Ingest(ctx context.Context, ds Dataset) (Report, error) {
	if err := ds.Validate(); err != nil {
		return Report{}, err
	}

	rep := Report{RunID: uuid.NewString()}
	log := s.logger.With(zap.String("run_id", rep.RunID))

	if err := s.professors.EnsureIndex(ctx); err != nil {
		return rep, fmt.Errorf("ensure professor index: %w", err)
	}
	if err := s.reviews.EnsureIndex(ctx); err != nil {
		return rep, fmt.Errorf("ensure review index: %w", err)
	}

	entries := make([]domdir.Entry, 0, len(ds.Professors))
	var pending []review.Review

	for _, p := range ds.Professors {
		entry := domdir.Entry{
			ID:         strings.TrimSpace(p.ID),
			Name:       strings.TrimSpace(p.Name),
			Department: strings.TrimSpace(p.Department),
			Subject:    strings.TrimSpace(p.Subject),
		}
		if entry.Name == "" {
			log.Warn("Skipping professor without name", zap.String("professor_id", entry.ID))
			rep.SkippedProfessors++
			rep.SkippedReviews += len(p.Reviews)
			continue
		}
		entries = append(entries, entry)

		for j, r := range p.Reviews {
			rv := review.Review{
				ID:          reviewID(entry.ID, j, r),
				ProfessorID: entry.ID,
				Professor:   entry.Name,
				Department:  entry.Department,
				Subject:     entry.Subject,
				Rating:      r.Rating,
				Text:        strings.TrimSpace(r.Text),
			}
			if rv.Text == "" {
				log.Debug("Skipping review without text", zap.String("review_id", rv.ID))
				rep.SkippedReviews++
				continue
			}
			if err := rv.Validate(); err != nil {
				return rep, fmt.Errorf("%w: %w", domain.ErrInvalidDataset, err)
			}
			pending = append(pending, rv)
		}
	}

	if len(entries) > 0 {
		if err := s.professors.Save(ctx, entries); err != nil {
			return rep, fmt.Errorf("save professors: %w", err)
		}
	}
	rep.Professors = len(entries)

	for offset := 0; offset < len(pending); offset += s.batchSize {
		batch := pending[offset:min(offset+s.batchSize, len(pending))]

		tokens, err := s.writeBatch(ctx, batch)
		if err != nil {
			return rep, fmt.Errorf("reviews %d-%d: %w", offset, offset+len(batch), err)
		}
		rep.Reviews += len(batch)
		rep.TotalTokens += tokens

		log.Info("Reviews ingested",
			zap.Int("done", rep.Reviews),
			zap.Int("total", len(pending)),
		)
	}

	log.Info("Ingestion complete",
		zap.Int("professors", rep.Professors),
		zap.Int("reviews", rep.Reviews),
		zap.Int("skipped_reviews", rep.SkippedReviews),
		zap.Int("total_tokens", rep.TotalTokens),
	)
	return rep, nil
}

func (s *Service) writeBatch(ctx context.Context, batch []review.Review) (int, error) {
	texts := make([]string, len(batch))
	for i, r := range batch {
		texts[i] = r.Text
	}

	res, err := domain.EmbedAll(ctx, s.embed, texts)
	if err != nil {
		return 0, fmt.Errorf("embed: %w", err)
	}
	for i := range batch {
		batch[i].Vector = res.Embeddings[i]
	}

	if err := s.reviews.Save(ctx, batch); err != nil {
		return 0, fmt.Errorf("save: %w", err)
	}
	return res.TotalTokens, nil
}
