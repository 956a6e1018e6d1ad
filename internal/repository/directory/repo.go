// Package directory stores the professor directory as Redis hashes and pages through it.
package directory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/profrag/internal/db"
	"github.com/kailas-cloud/profrag/internal/domain"
	domdir "github.com/kailas-cloud/profrag/internal/domain/directory"
)

// DefaultPageSize is the number of professors fetched per FT.SEARCH page.
const DefaultPageSize = 500

// store is the consumer interface for the directory (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
}

var returnFields = []string{
	domain.FieldProfessorID,
	domain.FieldName,
	domain.FieldDepartment,
	domain.FieldSubject,
}

// Repo implements usecase/directory.Source and the professor side of ingestion.
type Repo struct {
	store    store
	pageSize int
}

// New creates a directory repository. A non-positive pageSize falls back to DefaultPageSize.
func New(s store, pageSize int) *Repo {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Repo{store: s, pageSize: pageSize}
}

// FetchPage returns one page of professors. The token is the offset of the page;
// an empty token starts from the beginning and an empty NextToken ends the listing.
func (r *Repo) FetchPage(ctx context.Context, token string) (domdir.Page, error) {
	offset := 0
	if token != "" {
		n, err := strconv.Atoi(token)
		if err != nil || n < 0 {
			return domdir.Page{}, fmt.Errorf("invalid page token %q", token)
		}
		offset = n
	}

	sr, err := r.store.SearchList(ctx, &db.ListQuery{
		IndexName:    domain.ProfessorIndex,
		Query:        "*",
		Offset:       offset,
		Limit:        r.pageSize,
		ReturnFields: returnFields,
		SortBy:       domain.FieldProfessorID,
	})
	if err != nil {
		return domdir.Page{}, fmt.Errorf("list professors at %d: %w", offset, err)
	}

	entries := make([]domdir.Entry, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		entries = append(entries, entryFromHash(e))
	}

	page := domdir.Page{Entries: entries}
	if next := offset + len(sr.Entries); len(sr.Entries) > 0 && next < sr.Total {
		page.NextToken = strconv.Itoa(next)
	}
	return page, nil
}

// EnsureIndex creates the professor directory index unless it already exists.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, domain.ProfessorIndex)
	if err != nil {
		return fmt.Errorf("check professor index: %w", err)
	}
	if exists {
		return nil
	}

	def, err := db.NewIndex(domain.ProfessorIndex).
		Prefix(domain.ProfessorKeyPrefix).
		SortableTag(domain.FieldProfessorID).
		Text(domain.FieldName).
		Tag(domain.FieldDepartment).
		Tag(domain.FieldSubject).
		Build()
	if err != nil {
		return fmt.Errorf("build professor index: %w", err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create professor index: %w", err)
	}
	return nil
}

// Save writes professor hashes in one pipeline.
func (r *Repo) Save(ctx context.Context, entries []domdir.Entry) error {
	items := make([]db.HashSetItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, db.HashSetItem{
			Key: domain.ProfessorKeyPrefix + e.ID,
			Fields: map[string]string{
				domain.FieldProfessorID: e.ID,
				domain.FieldName:        e.Name,
				domain.FieldDepartment:  e.Department,
				domain.FieldSubject:     e.Subject,
			},
		})
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("save %d professors: %w", len(entries), err)
	}
	return nil
}

func entryFromHash(e db.SearchEntry) domdir.Entry {
	id := e.Fields[domain.FieldProfessorID]
	if id == "" {
		id = strings.TrimPrefix(e.Key, domain.ProfessorKeyPrefix)
	}
	return domdir.Entry{
		ID:         id,
		Name:       e.Fields[domain.FieldName],
		Department: e.Fields[domain.FieldDepartment],
		Subject:    e.Fields[domain.FieldSubject],
	}
}
