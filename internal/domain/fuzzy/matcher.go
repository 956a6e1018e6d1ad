package fuzzy

import "github.com/kailas-cloud/profrag/internal/domain/directory"

// Matcher runs many patterns against one directory and keeps the best score per professor.
type Matcher struct {
	indexer Indexer
	weights FieldWeights
}

// NewMatcher creates a matcher over the given index implementation.
func NewMatcher(indexer Indexer, weights FieldWeights) *Matcher {
	return &Matcher{indexer: indexer, weights: weights}
}

// Match builds one index over records, searches every distinct pattern and merges hits by
// canonical id. A later hit replaces the recorded score only when strictly lower, or when
// equal with more matched fields.
// Candidates are returned in first-seen order.
func (m *Matcher) Match(patterns []string, records []directory.Record) []Candidate {
	if len(patterns) == 0 || len(records) == 0 {
		return nil
	}

	idx := m.indexer.Build(records, m.weights)

	var out []Candidate
	pos := make(map[string]int)
	tried := make(map[string]struct{}, len(patterns))

	for _, p := range patterns {
		if p == "" {
			continue
		}
		if _, dup := tried[p]; dup {
			continue
		}
		tried[p] = struct{}{}

		for _, h := range idx.Search(p) {
			i, seen := pos[h.ID]
			if !seen {
				pos[h.ID] = len(out)
				out = append(out, Candidate{ID: h.ID, Score: h.Score, Fields: h.Fields})
				continue
			}
			if h.Score < out[i].Score || (h.Score == out[i].Score && h.Fields > out[i].Fields) {
				out[i].Score = h.Score
				out[i].Fields = h.Fields
			}
		}
	}

	return out
}
