package search

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/kailas-cloud/profrag/internal/db"
	"github.com/kailas-cloud/profrag/internal/domain"
	"github.com/kailas-cloud/profrag/internal/domain/review"
)

// indexStore is the consumer interface for review writes (ISP).
type indexStore interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// HNSWConfig HNSW index parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Writer creates the review vector index and stores review hashes.
type Writer struct {
	store     indexStore
	vectorDim int
	hnsw      HNSWConfig
}

// NewWriter creates a review writer for vectors of the given dimension.
// A non-positive dimension falls back to domain.DefaultVectorDim.
func NewWriter(s indexStore, vectorDim int) *Writer {
	if vectorDim <= 0 {
		vectorDim = domain.DefaultVectorDim
	}
	return &Writer{store: s, vectorDim: vectorDim, hnsw: HNSWConfig{M: 32, EFConstruct: 400}}
}

// WithHNSW configures HNSW index parameters.
func (w *Writer) WithHNSW(cfg HNSWConfig) *Writer {
	if cfg.M > 0 {
		w.hnsw.M = cfg.M
	}
	if cfg.EFConstruct > 0 {
		w.hnsw.EFConstruct = cfg.EFConstruct
	}
	return w
}

// EnsureIndex creates the review vector index unless it already exists.
func (w *Writer) EnsureIndex(ctx context.Context) error {
	exists, err := w.store.IndexExists(ctx, domain.ReviewIndex)
	if err != nil {
		return fmt.Errorf("check review index: %w", err)
	}
	if exists {
		return nil
	}

	def, err := buildIndex(w.vectorDim, w.hnsw)
	if err != nil {
		return fmt.Errorf("build review index: %w", err)
	}

	if err := w.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create review index: %w", err)
	}
	return nil
}

// Save writes review hashes with their vectors in one pipeline.
func (w *Writer) Save(ctx context.Context, reviews []review.Review) error {
	items := make([]db.HashSetItem, 0, len(reviews))
	for _, r := range reviews {
		if len(r.Vector) != w.vectorDim {
			return fmt.Errorf("review %s: vector dim %d, want %d: %w",
				r.ID, len(r.Vector), w.vectorDim, domain.ErrInvalidDataset)
		}
		items = append(items, db.HashSetItem{
			Key: domain.ReviewKeyPrefix + r.ID,
			Fields: map[string]string{
				domain.FieldProfessorID: r.ProfessorID,
				domain.FieldName:        r.Professor,
				domain.FieldDepartment:  r.Department,
				domain.FieldSubject:     r.Subject,
				domain.FieldRating:      strconv.FormatFloat(r.Rating, 'f', -1, 64),
				domain.FieldReview:      r.Text,
				domain.FieldVector:      vectorToBytes(r.Vector),
			},
		})
	}

	if err := w.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("save %d reviews: %w", len(reviews), err)
	}
	return nil
}

// buildIndex creates the review index definition: professor tag for candidate
// pre-filtering, sortable rating, HNSW/COSINE vector.
func buildIndex(vectorDim int, hnsw HNSWConfig) (*db.IndexDefinition, error) {
	return db.NewIndex(domain.ReviewIndex).
		Prefix(domain.ReviewKeyPrefix).
		Tag(domain.FieldProfessorID).
		Tag(domain.FieldDepartment).
		Tag(domain.FieldSubject).
		Numeric(domain.FieldRating).
		VectorHNSW(domain.FieldVector, vectorDim, db.DistanceCosine, hnsw.M, hnsw.EFConstruct).
		Build()
}

func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
