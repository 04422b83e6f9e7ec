package blob

import (
	"context"
	"fmt"
	"iter"
	"slices"

	"github.com/rjhudspith/urfit/errs"
	"github.com/rjhudspith/urfit/internal/hash"
	"github.com/rjhudspith/urfit/resample"
)

// Set is an ordered collection of named record lists, typically one per file.
//
// Lookups by name go through the xxHash64 of the name.
type Set struct {
	names   []string
	records [][]*resample.Distribution
	byID    map[uint64]int
}

// NewSet creates a set from parallel name and record slices.
//
// Returns:
//   - *Set: The set, in the given order
//   - error: errs.ErrInvalidDimensions when the slices differ in length or a
//     name repeats
func NewSet(names []string, records [][]*resample.Distribution) (*Set, error) {
	if len(names) != len(records) {
		return nil, fmt.Errorf("%w: %d names for %d record lists", errs.ErrInvalidDimensions, len(names), len(records))
	}

	s := &Set{
		names:   slices.Clone(names),
		records: slices.Clone(records),
		byID:    make(map[uint64]int, len(names)),
	}
	for i, name := range names {
		id := hash.ID(name)
		if j, ok := s.byID[id]; ok {
			if names[j] == name {
				return nil, fmt.Errorf("%w: duplicate name %q", errs.ErrInvalidDimensions, name)
			}

			return nil, fmt.Errorf("%w: names %q and %q collide on id %#016x", errs.ErrInvalidDimensions, names[j], name, id)
		}
		s.byID[id] = i
	}

	return s, nil
}

// ReadSet reads the files at paths in parallel and names each entry by its path.
func ReadSet(ctx context.Context, paths []string) (*Set, error) {
	records, err := ReadFiles(ctx, paths)
	if err != nil {
		return nil, err
	}

	return NewSet(paths, records)
}

// Len returns the number of entries.
func (s *Set) Len() int {
	return len(s.names)
}

// Names returns the entry names in order.
// The returned slice is cloned to prevent external modification.
func (s *Set) Names() []string {
	return slices.Clone(s.names)
}

// ByName returns the records stored under name.
func (s *Set) ByName(name string) ([]*resample.Distribution, bool) {
	i, ok := s.byID[hash.ID(name)]
	if !ok || s.names[i] != name {
		return nil, false
	}

	return s.records[i], true
}

// ByID returns the records whose name hashes to id.
func (s *Set) ByID(id uint64) ([]*resample.Distribution, bool) {
	i, ok := s.byID[id]
	if !ok {
		return nil, false
	}

	return s.records[i], true
}

// All returns an iterator over the entries in order.
func (s *Set) All() iter.Seq2[string, []*resample.Distribution] {
	return func(yield func(string, []*resample.Distribution) bool) {
		for i, name := range s.names {
			if !yield(name, s.records[i]) {
				return
			}
		}
	}
}

// Concat returns the records of all entries in order, as one list.
func (s *Set) Concat() []*resample.Distribution {
	total := 0
	for _, r := range s.records {
		total += len(r)
	}

	out := make([]*resample.Distribution, 0, total)
	for _, r := range s.records {
		out = append(out, r...)
	}

	return out
}
