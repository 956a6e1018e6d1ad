// Package query expands a free-text user question into fuzzy search patterns.
package query

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/profrag/internal/domain/textnorm"
)

// DefaultHonorifics are stripped from queries before pattern generation.
var DefaultHonorifics = []string{
	"prof", "professor", "dr", "doktor", "dozent",
	"herr", "frau", "mr", "ms", "mrs", "miss",
}

// DefaultMinWordLength is the shortest single word that becomes its own pattern.
const DefaultMinWordLength = 3

// Generator produces de-duplicated search patterns at every fidelity level.
type Generator struct {
	honorifics *regexp.Regexp
	minWordLen int
}

// NewGenerator creates a generator stripping the given honorifics (case-insensitive, whole words,
// optional trailing period). An empty list disables stripping.
func NewGenerator(honorifics []string) *Generator {
	return &Generator{
		honorifics: compileHonorifics(honorifics),
		minWordLen: DefaultMinWordLength,
	}
}

// WithMinWordLength overrides the minimum rune length of single-word patterns.
func (g *Generator) WithMinWordLength(n int) *Generator {
	if n > 0 {
		g.minWordLen = n
	}
	return g
}

// Patterns returns the full query, every word of at least the minimum length and every adjacent
// word pair, each at all distinct fidelity levels. Text is lowercased and whitespace collapsed.
// A query that is empty after stripping yields an empty slice.
func (g *Generator) Patterns(raw string) []string {
	words := strings.Fields(strings.ToLower(g.Strip(raw)))
	if len(words) == 0 {
		return []string{}
	}

	var acc patternSet
	acc.addVariants(strings.Join(words, " "))

	for _, w := range words {
		if utf8.RuneCountInString(w) >= g.minWordLen {
			acc.addVariants(w)
		}
	}

	for i := 0; i+1 < len(words); i++ {
		acc.addVariants(words[i] + " " + words[i+1])
	}

	return acc.items
}

// Strip removes honorifics and returns the remaining text unchanged otherwise.
func (g *Generator) Strip(raw string) string {
	if g.honorifics == nil {
		return raw
	}
	return g.honorifics.ReplaceAllString(raw, " ")
}

type patternSet struct {
	items []string
	seen  map[string]struct{}
}

func (s *patternSet) addVariants(text string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	for _, v := range textnorm.Normalize(text).Distinct() {
		if v == "" {
			continue
		}
		if _, dup := s.seen[v]; dup {
			continue
		}
		s.seen[v] = struct{}{}
		s.items = append(s.items, v)
	}
}

func compileHonorifics(words []string) *regexp.Regexp {
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(strings.ToLower(w)))
	}
	if len(quoted) == 0 {
		return nil
	}

	// longest first so "professor" is tried before "prof"
	sort.Slice(quoted, func(i, j int) bool { return len(quoted[i]) > len(quoted[j]) })

	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b\.?`)
}
