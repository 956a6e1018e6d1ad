package ingest

import (
	"context"

	domdir "github.com/kailas-cloud/profrag/internal/domain/directory"
	"github.com/kailas-cloud/profrag/internal/domain/review"
)

// ProfessorStore writes the professor directory.
type ProfessorStore interface {
	EnsureIndex(ctx context.Context) error
	Save(ctx context.Context, entries []domdir.Entry) error
}

// ReviewStore writes reviews with their vectors.
type ReviewStore interface {
	EnsureIndex(ctx context.Context) error
	Save(ctx context.Context, reviews []review.Review) error
}
