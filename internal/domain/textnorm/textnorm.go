// Package textnorm folds accented Latin letters into ASCII-safe spellings at two fidelity levels.
package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Variants holds one input at every fidelity level.
type Variants struct {
	Original   string
	Normalized string // multi-letter transliteration: ä -> ae
	Simplified string // single-letter folding: ä -> a
}

// transliterations is the fixed diacritic table. Runes outside it pass through unchanged.
var transliterations = map[rune]string{
	'ä': "ae", 'ö': "oe", 'ü': "ue", 'ß': "ss",
	'Ä': "Ae", 'Ö': "Oe", 'Ü': "Ue", 'ẞ': "SS",

	'á': "a", 'à': "a", 'â': "a", 'ã': "a", 'å': "a",
	'Á': "A", 'À': "A", 'Â': "A", 'Ã': "A", 'Å': "A",
	'é': "e", 'è': "e", 'ê': "e", 'ë': "e",
	'É': "E", 'È': "E", 'Ê': "E", 'Ë': "E",
	'í': "i", 'ì': "i", 'î': "i", 'ï': "i",
	'Í': "I", 'Ì': "I", 'Î': "I", 'Ï': "I",
	'ó': "o", 'ò': "o", 'ô': "o", 'õ': "o",
	'Ó': "O", 'Ò': "O", 'Ô': "O", 'Õ': "O",
	'ú': "u", 'ù': "u", 'û': "u",
	'Ú': "U", 'Ù': "U", 'Û': "U",
	'ç': "c", 'Ç': "C",
	'ñ': "n", 'Ñ': "N",
	'ý': "y", 'ÿ': "y", 'Ý': "Y",
}

// foldings maps the same runes to their single-letter base form.
var foldings = buildFoldings()

// buildFoldings derives base letters by canonical decomposition with combining marks removed.
// Runes without a decomposition (ß) keep their transliteration.
func buildFoldings() map[rune]string {
	strip := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	out := make(map[rune]string, len(transliterations))
	for r, translit := range transliterations {
		base, _, err := transform.String(strip, string(r))
		if err != nil || base == string(r) || base == "" {
			out[r] = translit
			continue
		}
		out[r] = base
	}
	return out
}

// Normalize returns text at all three fidelity levels. Empty input yields empty variants.
func Normalize(text string) Variants {
	if text == "" {
		return Variants{}
	}
	return Variants{
		Original:   text,
		Normalized: replace(text, transliterations),
		Simplified: replace(text, foldings),
	}
}

// Distinct returns the levels in fidelity order, skipping a level that repeats an earlier one.
func (v Variants) Distinct() []string {
	out := []string{v.Original}
	if v.Normalized != v.Original {
		out = append(out, v.Normalized)
	}
	if v.Simplified != v.Normalized && v.Simplified != v.Original {
		out = append(out, v.Simplified)
	}
	return out
}

func replace(text string, table map[rune]string) string {
	var b strings.Builder
	b.Grow(len(text) + 8)

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size <= 1 {
			b.WriteByte(text[i])
			i++
			continue
		}
		if sub, ok := table[r]; ok {
			b.WriteString(sub)
		} else {
			b.WriteString(text[i : i+size])
		}
		i += size
	}
	return b.String()
}
