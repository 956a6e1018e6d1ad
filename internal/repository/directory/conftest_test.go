package directory

import (
	"context"
	"testing"

	"github.com/kailas-cloud/profrag/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetMultiFn   func(ctx context.Context, items []db.HashSetItem) error
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
	searchListFn  func(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)

	created []*db.IndexDefinition
	lists   []*db.ListQuery
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	m.created = append(m.created, def)
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error) {
	m.lists = append(m.lists, q)
	if m.searchListFn != nil {
		return m.searchListFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo(t *testing.T, pageSize int) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, pageSize), ms
}

func profHash(id, name string) db.SearchEntry {
	return db.SearchEntry{
		Key: "profrag:prof:" + id,
		Fields: map[string]string{
			"professor_id": id,
			"name":         name,
			"department":   "Mathematik",
			"subject":      "Statistik",
		},
	}
}
