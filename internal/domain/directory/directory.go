// Package directory holds the professor directory model used for name resolution.
package directory

import (
	"strings"

	"github.com/kailas-cloud/profrag/internal/domain/textnorm"
)

// Entry is a raw professor entry as stored by the directory source.
type Entry struct {
	ID         string
	Name       string
	Department string
	Subject    string
}

// Page is one page of a paginated directory fetch. Empty NextToken ends the listing.
type Page struct {
	Entries   []Entry
	NextToken string
}

// Record is one searchable name variant of a professor.
// ID is the canonical professor id and repeats across variants of the same professor.
type Record struct {
	ID             string
	FullName       string
	NormalizedName string
	SimplifiedName string
	Department     string
	Subject        string
}

// Expand turns entries into name-variant records: the original name always,
// the transliterated name when it differs, the folded name when it differs from both.
// Entries with a blank name are returned in skipped.
func Expand(entries []Entry) (records []Record, skipped []Entry) {
	records = make([]Record, 0, len(entries))

	for _, e := range entries {
		if strings.TrimSpace(e.Name) == "" {
			skipped = append(skipped, e)
			continue
		}

		v := textnorm.Normalize(e.Name)
		base := Record{
			ID:             e.ID,
			NormalizedName: v.Normalized,
			SimplifiedName: v.Simplified,
			Department:     e.Department,
			Subject:        e.Subject,
		}
		for _, name := range v.Distinct() {
			r := base
			r.FullName = name
			records = append(records, r)
		}
	}

	return records, skipped
}
