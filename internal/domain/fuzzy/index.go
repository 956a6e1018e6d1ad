// Package fuzzy resolves search patterns against the expanded professor directory
// using weighted multi-field approximate string matching.
package fuzzy

import "github.com/kailas-cloud/profrag/internal/domain/directory"

// DefaultThreshold is the permissive match threshold: a field matches when
// its normalized edit distance is at most this value. Higher is more permissive.
const DefaultThreshold = 0.65

// FieldWeights sets the relative weight of each searchable record field.
// Fields with a non-positive weight are not searched.
type FieldWeights struct {
	FullName       float64
	NormalizedName float64
	Department     float64
	Subject        float64
}

// DefaultFieldWeights favours name fields over metadata.
func DefaultFieldWeights() FieldWeights {
	return FieldWeights{
		FullName:       2,
		NormalizedName: 2,
		Department:     0.5,
		Subject:        0.5,
	}
}

// Hit is a single index match. Score is a distance: 0 is perfect, lower is better.
// Fields counts the record fields the pattern matched.
type Hit struct {
	ID     string
	Record int
	Score  float64
	Fields int
}

// Index answers pattern queries over a fixed set of records.
type Index interface {
	Search(pattern string) []Hit
}

// Indexer builds an Index over directory records.
type Indexer interface {
	Build(records []directory.Record, weights FieldWeights) Index
}

// Candidate is the best match observed for one canonical professor id.
// Fields is the matched field count of the hit that set Score.
type Candidate struct {
	ID     string
	Score  float64
	Fields int
}

// IDs returns candidate ids in order.
func IDs(candidates []Candidate) []string {
	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}
	return ids
}
