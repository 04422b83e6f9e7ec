// Package pmap maps the per-datapoint parameters of a simultaneous fit onto
// the global parameter vector.
//
// Each of the Nsim datasets evaluates the same model with Nparam parameters.
// A parameter position is either shared, in which case every dataset reads
// the same logical parameter, or independent, in which case each dataset owns
// a separate copy. Logical indices are assigned dataset by dataset: dataset 0
// takes 0..Nparam-1 and later datasets append fresh indices for their
// independent positions only.
package pmap

import (
	"fmt"

	"github.com/rjhudspith/urfit/errs"
)

// Map is the parameter layout of one fit. It is read-only once built.
type Map struct {
	// Entries holds Nparam logical indices for every aggregate datapoint.
	Entries [][]int
	Nparam  int
	Nlogic  int
	Ndata   []int
	Shared  []bool

	// dataset of each aggregate datapoint
	owner []int
	// first aggregate datapoint of each dataset
	offset []int
	// logical indices per dataset, shared by that dataset's entries
	layout [][]int
}

// Build creates the map for len(ndata) datasets. shared must hold nparam
// entries; a nil shared marks every position independent.
func Build(nparam int, ndata []int, shared []bool) (*Map, error) {
	if nparam < 0 {
		return nil, fmt.Errorf("%w: negative parameter count %d", errs.ErrInvalidParameterMap, nparam)
	}
	if len(ndata) == 0 {
		return nil, fmt.Errorf("%w: no datasets", errs.ErrInvalidParameterMap)
	}
	if shared == nil {
		shared = make([]bool, nparam)
	}
	if len(shared) != nparam {
		return nil, fmt.Errorf("%w: %d shared flags for %d parameters", errs.ErrInvalidParameterMap, len(shared), nparam)
	}

	ntot := 0
	for i, n := range ndata {
		if n < 0 {
			return nil, fmt.Errorf("%w: dataset %d has %d points", errs.ErrInvalidParameterMap, i, n)
		}
		ntot += n
	}

	// logical index of each (dataset, position)
	layout := make([][]int, len(ndata))
	next := 0
	for sim := range ndata {
		layout[sim] = make([]int, nparam)
		for p := 0; p < nparam; p++ {
			if sim > 0 && shared[p] {
				layout[sim][p] = layout[0][p]
				continue
			}
			layout[sim][p] = next
			next++
		}
	}

	m := &Map{
		Entries: make([][]int, 0, ntot),
		Nparam:  nparam,
		Nlogic:  next,
		Ndata:   append([]int(nil), ndata...),
		Shared:  append([]bool(nil), shared...),
		owner:   make([]int, 0, ntot),
		offset:  make([]int, len(ndata)),
		layout:  layout,
	}
	for sim, n := range ndata {
		m.offset[sim] = len(m.Entries)
		for j := 0; j < n; j++ {
			m.Entries = append(m.Entries, layout[sim])
			m.owner = append(m.owner, sim)
		}
	}

	return m, nil
}

// Nsim returns the number of datasets.
func (m *Map) Nsim() int { return len(m.Ndata) }

// Ntot returns the number of aggregate datapoints.
func (m *Map) Ntot() int { return len(m.Entries) }

// Logical returns the logical index of parameter p at aggregate datapoint point.
func (m *Map) Logical(point, p int) int {
	return m.Entries[point][p]
}

// Dataset returns the dataset that owns aggregate datapoint point.
func (m *Map) Dataset(point int) int {
	return m.owner[point]
}

// Offset returns the aggregate index of the first datapoint of dataset sim.
func (m *Map) Offset(sim int) int {
	return m.offset[sim]
}

// Layout returns the logical indices used by dataset sim. It is defined
// for datasets without datapoints too.
func (m *Map) Layout(sim int) []int {
	return append([]int(nil), m.layout[sim]...)
}

// Params gathers the Nparam values used at aggregate datapoint point from
// the global vector into dst, which must have length Nparam.
func (m *Map) Params(dst []float64, point int, global []float64) {
	for p, idx := range m.Entries[point] {
		dst[p] = global[idx]
	}
}

// Validate checks that every referenced logical index is below Nlogic and
// that shared positions agree across datasets.
func (m *Map) Validate() error {
	for point, entry := range m.Entries {
		if len(entry) != m.Nparam {
			return fmt.Errorf("%w: point %d has %d indices", errs.ErrInvalidParameterMap, point, len(entry))
		}
		for p, idx := range entry {
			if idx < 0 || idx >= m.Nlogic {
				return fmt.Errorf("%w: point %d parameter %d index %d outside [0,%d)",
					errs.ErrInvalidParameterMap, point, p, idx, m.Nlogic)
			}
			if m.Shared[p] && idx != m.Entries[0][p] {
				return fmt.Errorf("%w: shared parameter %d not shared at point %d", errs.ErrInvalidParameterMap, p, point)
			}
		}
	}

	return nil
}
