// Package search runs review similarity searches against the review vector index.
package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/profrag/internal/db"
	"github.com/kailas-cloud/profrag/internal/domain"
	"github.com/kailas-cloud/profrag/internal/domain/retrieval"
	"github.com/kailas-cloud/profrag/internal/domain/search/filter"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

var returnFields = []string{
	domain.FieldProfessorID,
	domain.FieldName,
	domain.FieldDepartment,
	domain.FieldSubject,
	domain.FieldRating,
	domain.FieldReview,
}

// Repo implements usecase/retrieval.VectorSearcher.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// SearchReviews returns the topK reviews nearest to vector, best first.
// A non-empty professorIDs restricts the search to reviews of those professors.
func (r *Repo) SearchReviews(
	ctx context.Context, vector []float32, professorIDs []string, topK int,
) ([]retrieval.Record, error) {
	var filters filter.Expression
	if len(professorIDs) > 0 {
		cond, err := filter.NewAnyOf(domain.FieldProfessorID, professorIDs...)
		if err != nil {
			return nil, fmt.Errorf("professor filter: %w: %w", domain.ErrInvalidSearch, err)
		}
		filters = filter.NewExpression(cond)
	}

	q := &db.KNNQuery{
		IndexName:    domain.ReviewIndex,
		VectorField:  domain.FieldVector,
		Filters:      filters,
		Vector:       vector,
		K:            topK,
		ReturnFields: returnFields,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if errors.Is(err, db.ErrInvalidQuery) {
		return nil, fmt.Errorf("search reviews: %w: %w", domain.ErrInvalidSearch, err)
	}
	if err != nil {
		return nil, fmt.Errorf("search reviews: %w", err)
	}

	return parseRecords(sr), nil
}

func parseRecords(sr *db.SearchResult) []retrieval.Record {
	if sr == nil || len(sr.Entries) == 0 {
		return nil
	}

	records := make([]retrieval.Record, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		records = append(records, parseEntry(entry))
	}
	return records
}

func parseEntry(entry db.SearchEntry) retrieval.Record {
	rating, _ := strconv.ParseFloat(entry.Fields[domain.FieldRating], 64)
	return retrieval.Record{
		ID:          strings.TrimPrefix(entry.Key, domain.ReviewKeyPrefix),
		ProfessorID: entry.Fields[domain.FieldProfessorID],
		Professor:   entry.Fields[domain.FieldName],
		Subject:     entry.Fields[domain.FieldSubject],
		Department:  entry.Fields[domain.FieldDepartment],
		Rating:      rating,
		Review:      entry.Fields[domain.FieldReview],
		Score:       entry.Score,
	}
}
