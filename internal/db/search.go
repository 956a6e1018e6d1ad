package db

import "github.com/kailas-cloud/profrag/internal/domain/search/filter"

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	VectorField  string
	Filters      filter.Expression
	Vector       []float32
	K            int
	ReturnFields []string
}

// ListQuery is the input for a paginated listing of an index.
type ListQuery struct {
	IndexName    string
	Query        string // "*" lists everything
	Offset       int
	Limit        int
	ReturnFields []string
	SortBy       string // ascending sort field, optional
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit. Score is a similarity in [0,1] for KNN queries.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
