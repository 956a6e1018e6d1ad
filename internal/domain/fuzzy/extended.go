package fuzzy

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

type operator int

const (
	opFuzzy operator = iota
	opExact
	opInclude
	opPrefix
	opSuffix
	opInverseInclude
	opInversePrefix
	opInverseSuffix
)

type term struct {
	op    operator
	text  string
	runes []rune
}

// extendedQuery is an OR of AND groups. Whitespace separates AND terms,
// " | " separates OR groups.
type extendedQuery struct {
	groups [][]term
}

var orSeparator = regexp.MustCompile(`\s+\|\s+`)

// parseQuery parses a lowercased pattern. Groups containing an empty operator term are dropped,
// as are groups made only of inverse terms: an inverse term narrows a group, it never matches
// on its own. ok is false when nothing searchable remains.
func parseQuery(pattern string) (q extendedQuery, ok bool) {
	for _, part := range orSeparator.Split(pattern, -1) {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}

		group := make([]term, 0, len(fields))
		valid, positive := true, false
		for _, f := range fields {
			t := parseTerm(f)
			if t.text == "" {
				valid = false
				break
			}
			if !t.inverse() {
				positive = true
			}
			group = append(group, t)
		}
		if valid && positive {
			q.groups = append(q.groups, group)
		}
	}
	return q, len(q.groups) > 0
}

func parseTerm(s string) term {
	var t term
	switch {
	case strings.HasPrefix(s, "="):
		t = term{op: opExact, text: s[1:]}
	case strings.HasPrefix(s, "!^"):
		t = term{op: opInversePrefix, text: s[2:]}
	case strings.HasPrefix(s, "!") && len(s) > 2 && strings.HasSuffix(s, "$"):
		t = term{op: opInverseSuffix, text: s[1 : len(s)-1]}
	case strings.HasPrefix(s, "!"):
		t = term{op: opInverseInclude, text: s[1:]}
	case strings.HasPrefix(s, "^"):
		t = term{op: opPrefix, text: s[1:]}
	case strings.HasPrefix(s, "'"):
		t = term{op: opInclude, text: s[1:]}
	case len(s) > 1 && strings.HasSuffix(s, "$"):
		t = term{op: opSuffix, text: s[:len(s)-1]}
	default:
		t = term{op: opFuzzy, text: s}
	}
	if t.op == opFuzzy {
		t.runes = []rune(t.text)
	}
	return t
}

func (t term) inverse() bool {
	return t.op == opInverseInclude || t.op == opInversePrefix || t.op == opInverseSuffix
}

// score evaluates one term against a lowercased field value.
func (t term) score(field string, fieldRunes []rune, threshold float64) (float64, bool) {
	switch t.op {
	case opExact:
		return 0, field == t.text
	case opInclude:
		return 0, strings.Contains(field, t.text)
	case opPrefix:
		return 0, strings.HasPrefix(field, t.text)
	case opSuffix:
		return 0, strings.HasSuffix(field, t.text)
	case opInverseInclude:
		return 0, !strings.Contains(field, t.text)
	case opInversePrefix:
		return 0, !strings.HasPrefix(field, t.text)
	case opInverseSuffix:
		return 0, !strings.HasSuffix(field, t.text)
	}

	if strings.Contains(field, t.text) {
		return 0, true
	}
	n := utf8.RuneCountInString(t.text)
	s := float64(substringDistance(t.runes, fieldRunes)) / float64(n)
	return s, s <= threshold
}

// score returns the best group score for a field. A group matches when all of its terms match;
// its score is the mean of its positive term scores.
func (q extendedQuery) score(field string, fieldRunes []rune, threshold float64) (float64, bool) {
	best, matched := 0.0, false

	for _, group := range q.groups {
		sum, n, ok := 0.0, 0, true
		for _, t := range group {
			s, hit := t.score(field, fieldRunes, threshold)
			if !hit {
				ok = false
				break
			}
			if !t.inverse() {
				sum += s
				n++
			}
		}
		if !ok {
			continue
		}
		mean := sum / float64(n)
		if !matched || mean < best {
			best, matched = mean, true
		}
	}

	return best, matched
}
