// Package review holds a student review as it is written to the vector index.
package review

import "fmt"

// MaxRating is the upper bound of the rating scale.
const MaxRating = 5.0

// Review is one student review of a professor together with its embedding.
// Professor, Department and Subject are denormalized from the directory so
// search hits carry their metadata without a second lookup.
type Review struct {
	ID          string
	ProfessorID string
	Professor   string
	Department  string
	Subject     string
	Rating      float64
	Text        string
	Vector      []float32
}

// Validate checks the fields required for indexing, except the vector.
func (r Review) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("review id is required")
	}
	if r.ProfessorID == "" {
		return fmt.Errorf("review %s: professor id is required", r.ID)
	}
	if r.Rating < 0 || r.Rating > MaxRating {
		return fmt.Errorf("review %s: rating %.1f out of range [0, %.0f]", r.ID, r.Rating, MaxRating)
	}
	return nil
}
