package fuzzy

import (
	"math"
	"sort"
	"strings"

	"github.com/kailas-cloud/profrag/internal/domain/directory"
)

// minFieldScore replaces a perfect field score so it still carries weight in the product.
const minFieldScore = 0.001

// ApproxIndexer builds in-memory indexes scored by approximate substring edit distance.
type ApproxIndexer struct {
	threshold float64
}

// NewApproxIndexer creates an indexer. A non-positive threshold falls back to DefaultThreshold.
func NewApproxIndexer(threshold float64) ApproxIndexer {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return ApproxIndexer{threshold: threshold}
}

// Build lowercases and tokenizes every searchable field once.
func (a ApproxIndexer) Build(records []directory.Record, weights FieldWeights) Index {
	raw := []float64{weights.FullName, weights.NormalizedName, weights.Department, weights.Subject}

	var total float64
	for _, w := range raw {
		if w > 0 {
			total += w
		}
	}

	norm := make([]float64, len(raw))
	if total > 0 {
		for i, w := range raw {
			if w > 0 {
				norm[i] = w / total
			}
		}
	}

	docs := make([]doc, len(records))
	for i, r := range records {
		values := []string{r.FullName, r.NormalizedName, r.Department, r.Subject}
		d := doc{id: r.ID, fields: make([]field, len(values))}
		for f, v := range values {
			if norm[f] == 0 {
				continue
			}
			lower := strings.ToLower(v)
			d.fields[f] = field{text: lower, runes: []rune(lower)}
		}
		docs[i] = d
	}

	return &approxIndex{docs: docs, weights: norm, threshold: a.threshold}
}

type field struct {
	text  string
	runes []rune
}

type doc struct {
	id     string
	fields []field
}

type approxIndex struct {
	docs      []doc
	weights   []float64
	threshold float64
}

// Search returns matching records ordered by ascending score, more matched fields first on ties.
// Record score is the weighted product of matched field scores.
func (ix *approxIndex) Search(pattern string) []Hit {
	q, ok := parseQuery(strings.ToLower(pattern))
	if !ok || len(ix.docs) == 0 {
		return nil
	}

	var hits []Hit
	for i := range ix.docs {
		d := &ix.docs[i]

		total, fields := 1.0, 0
		for f, fv := range d.fields {
			if ix.weights[f] == 0 || fv.text == "" {
				continue
			}
			s, hit := q.score(fv.text, fv.runes, ix.threshold)
			if !hit {
				continue
			}
			fields++
			total *= math.Pow(max(s, minFieldScore), ix.weights[f])
		}

		if fields > 0 {
			hits = append(hits, Hit{ID: d.id, Record: i, Score: total, Fields: fields})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score < hits[j].Score
		}
		return hits[i].Fields > hits[j].Fields
	})
	return hits
}
