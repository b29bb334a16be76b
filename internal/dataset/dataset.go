// Package dataset provides named, ordered dataset splits and the split
// rebalancer used to reshape them before preprocessing.
package dataset

import (
	"fmt"

	"github.com/bft-labs/speechprep/internal/domain"
)

// Split is an ordered, indexable collection of examples.
type Split []domain.Example

// Select returns a new split containing the examples at the given indices,
// in index order. Indices may reorder examples; they must be in range.
func (s Split) Select(indices []int) (Split, error) {
	out := make(Split, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(s) {
			return nil, fmt.Errorf("select: index %d out of range [0, %d)", idx, len(s))
		}
		out = append(out, s[idx])
	}
	return out, nil
}

// Concatenate joins multiple splits into one, preserving order.
func Concatenate(splits ...Split) Split {
	var n int
	for _, s := range splits {
		n += len(s)
	}
	out := make(Split, 0, n)
	for _, s := range splits {
		out = append(out, s...)
	}
	return out
}

// Dataset is a mapping from split name to an ordered collection of examples.
// Split names are unique and iteration order follows insertion order, so
// every walk over a dataset is deterministic.
type Dataset struct {
	names  []string
	splits map[string]Split
}

// New creates an empty dataset.
func New() *Dataset {
	return &Dataset{splits: make(map[string]Split)}
}

// Set stores a split under the given name, replacing any existing split.
// A new name is appended to the iteration order.
func (d *Dataset) Set(name string, s Split) {
	if _, ok := d.splits[name]; !ok {
		d.names = append(d.names, name)
	}
	d.splits[name] = s
}

// Split returns the split with the given name.
func (d *Dataset) Split(name string) (Split, bool) {
	s, ok := d.splits[name]
	return s, ok
}

// Names returns the split names in insertion order.
func (d *Dataset) Names() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Len returns the number of splits.
func (d *Dataset) Len() int {
	return len(d.names)
}

// TotalExamples returns the example count summed over all splits.
func (d *Dataset) TotalExamples() int {
	var n int
	for _, s := range d.splits {
		n += len(s)
	}
	return n
}
