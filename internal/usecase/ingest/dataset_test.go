package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kailas-cloud/profrag/internal/domain"
)

func TestLoadDataset(t *testing.T) {
	ds, err := LoadDataset(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ds.Professors) != 2 {
		t.Fatalf("expected 2 professors, got %d", len(ds.Professors))
	}
	p := ds.Professors[0]
	if p.Name != "Prof. Dr. Anna Müller" || p.Subject != "Statistik" {
		t.Errorf("unexpected professor: %+v", p)
	}
	if len(p.Reviews) != 3 || p.Reviews[0].Rating != 4.5 {
		t.Errorf("unexpected reviews: %+v", p.Reviews)
	}
}

func TestLoadDataset_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", ""},
		{"no professors", "professors: []\n"},
		{"malformed", "professors: [\n"},
		{"unknown field", "professors:\n  - id: p1\n    nickname: x\n"},
		{"missing id", "professors:\n  - name: A\n"},
		{"duplicate professor", "professors:\n  - id: p1\n    name: A\n  - id: p1\n    name: B\n"},
		{
			"duplicate review",
			"professors:\n  - id: p1\n    name: A\n    reviews:\n      - id: r1\n        text: a\n      - id: r1\n        text: b\n",
		},
		{
			"derived id collides",
			"professors:\n  - id: p1\n    name: A\n    reviews:\n      - id: p1-2\n        text: a\n      - text: b\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadDataset(strings.NewReader(tt.yaml))
			if !errors.Is(err, domain.ErrInvalidDataset) {
				t.Errorf("expected ErrInvalidDataset, got %v", err)
			}
		})
	}
}

func TestLoadDatasetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o600); err != nil {
		t.Fatal(err)
	}

	ds, err := LoadDatasetFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ds.Professors) != 2 {
		t.Errorf("expected 2 professors, got %d", len(ds.Professors))
	}

	if _, err := LoadDatasetFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReviewID(t *testing.T) {
	if got := reviewID("p1", 0, Review{ID: " r7 "}); got != "r7" {
		t.Errorf("explicit id: got %q", got)
	}
	if got := reviewID("p1", 2, Review{}); got != "p1-3" {
		t.Errorf("derived id: got %q", got)
	}
}

const sampleTOML = `
[[professors]]
id = "p1"
name = "Prof. Dr. Anna Müller"
department = "Mathematik"
subject = "Statistik"

  [[professors.reviews]]
  id = "r1"
  rating = 4.5
  text = "Clear lectures on regression"

[[professors]]
id = "p2"
name = "Li Zhang"
`

func TestLoadDatasetTOML(t *testing.T) {
	ds, err := LoadDatasetTOML(strings.NewReader(sampleTOML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ds.Professors) != 2 {
		t.Fatalf("expected 2 professors, got %d", len(ds.Professors))
	}
	if r := ds.Professors[0].Reviews; len(r) != 1 || r[0].Rating != 4.5 {
		t.Errorf("unexpected reviews: %+v", r)
	}
}

func TestLoadDatasetTOML_Invalid(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"empty", ""},
		{"malformed", "[[professors]\n"},
		{"unknown key", "[[professors]]\nid = \"p1\"\nnickname = \"x\"\n"},
		{"missing id", "[[professors]]\nname = \"A\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadDatasetTOML(strings.NewReader(tt.toml))
			if !errors.Is(err, domain.ErrInvalidDataset) {
				t.Errorf("expected ErrInvalidDataset, got %v", err)
			}
		})
	}
}

func TestLoadDatasetFile_TOMLByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.toml")
	if err := os.WriteFile(path, []byte(sampleTOML), 0o600); err != nil {
		t.Fatal(err)
	}

	ds, err := LoadDatasetFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Professors[1].Name != "Li Zhang" {
		t.Errorf("unexpected dataset: %+v", ds)
	}
}
