// Package workload reads planning workloads and plans them in bulk.
//
// A workload file is YAML:
//
//	name: movies
//	items:
//	  - variable: n
//	    kind: node
//	    predicates:
//	      - n:Movie
//	      - n.title = 'Alien'
//	    hints:
//	      - USING INDEX n:Movie(title)
package workload

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/quantagraph/internal/errors"
	"github.com/dshills/quantagraph/internal/pattern"
)

// File is the on-disk form of a workload.
type File struct {
	Name  string     `yaml:"name" json:"name"`
	Items []FileItem `yaml:"items" json:"items"`
}

// FileItem describes one pattern variable to plan.
type FileItem struct {
	Variable   string   `yaml:"variable" json:"variable"`
	Kind       string   `yaml:"kind,omitempty" json:"kind,omitempty"`
	Predicates []string `yaml:"predicates" json:"predicates"`
	Hints      []string `yaml:"hints,omitempty" json:"hints,omitempty"`
}

// Workload is a decoded workload.
type Workload struct {
	Name  string
	Items []Item
}

// Item is one planning request.
type Item struct {
	Variable   pattern.Variable
	Predicates []pattern.Predicate
	Hints      []pattern.Hint
}

// Load reads and decodes a workload file.
func Load(path string) (*Workload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.FileIOError("read", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML workload.
func Parse(data []byte) (*Workload, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.New(errors.InvalidParameterValue, "malformed workload").
			WithDetail(err.Error())
	}
	return f.Decode()
}

// Decode converts the file form into predicates and hints.
func (f *File) Decode() (*Workload, error) {
	wl := &Workload{Name: f.Name, Items: make([]Item, 0, len(f.Items))}
	for i, fi := range f.Items {
		item, err := fi.decode()
		if err != nil {
			if err.Detail == "" {
				return nil, err.WithDetailf("workload item %d", i+1)
			}
			return nil, err.WithDetailf("workload item %d: %s", i+1, err.Detail)
		}
		wl.Items = append(wl.Items, item)
	}
	return wl, nil
}

func (fi FileItem) decode() (Item, *errors.Error) {
	if fi.Variable == "" {
		return Item{}, errors.InvalidPredicateError("", "workload item has no variable")
	}
	kind, err := pattern.ParseKind(fi.Kind)
	if err != nil {
		return Item{}, errors.InvalidParameterValueError("kind", fi.Kind, err.Error())
	}

	item := Item{Variable: pattern.Variable{Name: fi.Variable, Kind: kind}}
	for _, s := range fi.Predicates {
		pred, err := pattern.ParsePredicate(s)
		if err != nil {
			return Item{}, errors.InvalidPredicateError(fi.Variable, err.Error())
		}
		item.Predicates = append(item.Predicates, pred)
	}
	for _, s := range fi.Hints {
		hint, err := pattern.ParseHint(s)
		if err != nil {
			return Item{}, errors.InvalidPredicateError(fi.Variable, err.Error())
		}
		item.Hints = append(item.Hints, hint)
	}
	return item, nil
}
