// Package retrieval holds the records handed to the LLM prompt and the outcome of a query resolution.
package retrieval

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/profrag/internal/domain/fuzzy"
)

// NoResultsNotice is rendered in place of records when nothing matched, so the model can say so
// instead of inventing an answer.
const NoResultsNotice = "No matching professor records were found for this question. " +
	"Tell the user that no reviews are available instead of guessing."

// Record is one vector search hit with its review metadata.
type Record struct {
	ID          string  `json:"id"`
	ProfessorID string  `json:"professor_id"`
	Professor   string  `json:"professor"`
	Subject     string  `json:"subject,omitempty"`
	Department  string  `json:"department,omitempty"`
	Rating      float64 `json:"rating"`
	Review      string  `json:"review"`
	Score       float64 `json:"score"`
}

// Context is the ordered retrieval result for one query.
type Context struct {
	Records []Record
	// Filtered is true when Records came from the candidate-filtered search.
	Filtered bool
	// FellBack is true when the filtered search was empty and the unfiltered search ran.
	FellBack bool
}

// Empty reports that no records were found, filtered or not.
func (c Context) Empty() bool { return len(c.Records) == 0 }

// Prompt renders the records as a numbered plain-text block for LLM prompt assembly.
func (c Context) Prompt() string {
	if c.Empty() {
		return NoResultsNotice
	}

	var b strings.Builder
	for i, r := range c.Records {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. Professor: %s\n", i+1, r.Professor)
		if r.Subject != "" {
			fmt.Fprintf(&b, "   Subject: %s\n", r.Subject)
		}
		if r.Department != "" {
			fmt.Fprintf(&b, "   Department: %s\n", r.Department)
		}
		fmt.Fprintf(&b, "   Rating: %.1f\n", r.Rating)
		fmt.Fprintf(&b, "   Review: %s\n", strings.TrimSpace(r.Review))
		fmt.Fprintf(&b, "   Similarity: %.3f\n", r.Score)
	}
	return b.String()
}

// Resolution is the full outcome of resolving one user question.
type Resolution struct {
	Query       string
	Patterns    []string
	Candidates  []fuzzy.Candidate
	Suggestions []string
	Context     Context
}
