package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/profrag/internal/domain"
)

// Dataset is the ingestion file: professors with their reviews.
type Dataset struct {
	Professors []Professor `yaml:"professors" toml:"professors"`
}

// Professor is one directory entry with its reviews.
type Professor struct {
	ID         string   `yaml:"id" toml:"id"`
	Name       string   `yaml:"name" toml:"name"`
	Department string   `yaml:"department" toml:"department"`
	Subject    string   `yaml:"subject" toml:"subject"`
	Reviews    []Review `yaml:"reviews" toml:"reviews"`
}

// Review is one student review. An empty ID is derived from the professor id and position.
type Review struct {
	ID     string  `yaml:"id" toml:"id"`
	Rating float64 `yaml:"rating" toml:"rating"`
	Text   string  `yaml:"text" toml:"text"`
}

// LoadDatasetFile reads and validates a dataset file. Files ending in .toml are
// decoded as TOML, everything else as YAML.
func LoadDatasetFile(path string) (Dataset, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return Dataset{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return LoadDatasetTOML(f)
	}
	return LoadDataset(f)
}

// LoadDatasetTOML decodes and validates a TOML dataset. Unknown keys are rejected.
func LoadDatasetTOML(r io.Reader) (Dataset, error) {
	var ds Dataset

	md, err := toml.NewDecoder(r).Decode(&ds)
	if err != nil {
		return Dataset{}, fmt.Errorf("%w: parse: %w", domain.ErrInvalidDataset, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Dataset{}, fmt.Errorf("%w: unknown key %q", domain.ErrInvalidDataset, undecoded[0].String())
	}

	if err := ds.Validate(); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

// LoadDataset decodes and validates a YAML dataset. Unknown fields are rejected.
func LoadDataset(r io.Reader) (Dataset, error) {
	var ds Dataset

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil {
		if err == io.EOF {
			return Dataset{}, fmt.Errorf("%w: empty file", domain.ErrInvalidDataset)
		}
		return Dataset{}, fmt.Errorf("%w: parse: %w", domain.ErrInvalidDataset, err)
	}

	if err := ds.Validate(); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

// Validate checks id presence and uniqueness across professors and reviews.
func (ds Dataset) Validate() error {
	if len(ds.Professors) == 0 {
		return fmt.Errorf("%w: no professors", domain.ErrInvalidDataset)
	}

	profIDs := make(map[string]struct{}, len(ds.Professors))
	reviewIDs := make(map[string]struct{})

	for i, p := range ds.Professors {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return fmt.Errorf("%w: professor #%d has no id", domain.ErrInvalidDataset, i+1)
		}
		if _, dup := profIDs[id]; dup {
			return fmt.Errorf("%w: duplicate professor id %q", domain.ErrInvalidDataset, id)
		}
		profIDs[id] = struct{}{}

		for j, r := range p.Reviews {
			rid := reviewID(id, j, r)
			if _, dup := reviewIDs[rid]; dup {
				return fmt.Errorf("%w: duplicate review id %q", domain.ErrInvalidDataset, rid)
			}
			reviewIDs[rid] = struct{}{}
		}
	}
	return nil
}

func reviewID(professorID string, pos int, r Review) string {
	if id := strings.TrimSpace(r.ID); id != "" {
		return id
	}
	return fmt.Sprintf("%s-%d", professorID, pos+1)
}
