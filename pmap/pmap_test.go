package pmap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rjhudspith/urfit/errs"
)

func TestBuild_SharedFirstParameter(t *testing.T) {
	const nparam = 3
	m, err := Build(nparam, []int{3, 3}, []bool{true, false, false})
	require.NoError(t, err)

	require.Equal(t, 1+2*(nparam-1), m.Nlogic)
	require.Equal(t, 2, m.Nsim())
	require.Equal(t, 6, m.Ntot())
	require.NoError(t, m.Validate())

	for point := 0; point < m.Ntot(); point++ {
		require.Equal(t, m.Logical(0, 0), m.Logical(point, 0))
	}

	require.Equal(t, []int{0, 1, 2}, m.Entries[0])
	require.Equal(t, []int{0, 3, 4}, m.Entries[3])
	require.Equal(t, 0, m.Dataset(2))
	require.Equal(t, 1, m.Dataset(3))
	require.Equal(t, 3, m.Offset(1))
}

func TestBuild_Layouts(t *testing.T) {
	tests := []struct {
		name   string
		nparam int
		ndata  []int
		shared []bool
		nlogic int
	}{
		{name: "single dataset", nparam: 4, ndata: []int{10}, shared: nil, nlogic: 4},
		{name: "all independent", nparam: 2, ndata: []int{2, 2, 2}, shared: []bool{false, false}, nlogic: 6},
		{name: "all shared", nparam: 2, ndata: []int{2, 5}, shared: []bool{true, true}, nlogic: 2},
		{name: "mixed three sims", nparam: 3, ndata: []int{1, 2, 3}, shared: []bool{false, true, false}, nlogic: 1 + 2*3},
		{name: "empty dataset", nparam: 2, ndata: []int{2, 0, 1}, shared: []bool{true, false}, nlogic: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Build(tt.nparam, tt.ndata, tt.shared)
			require.NoError(t, err)
			require.Equal(t, tt.nlogic, m.Nlogic)
			require.NoError(t, m.Validate())

			// independent positions never collide across datasets
			seen := map[int]int{}
			for sim := 0; sim < m.Nsim(); sim++ {
				layout := m.Layout(sim)
				for p, idx := range layout {
					if m.Shared[p] {
						continue
					}
					owner, ok := seen[idx]
					require.False(t, ok && owner != sim, "index %d reused by dataset %d and %d", idx, owner, sim)
					seen[idx] = sim
				}
			}
		})
	}
}

func TestParams(t *testing.T) {
	m, err := Build(2, []int{1, 1}, []bool{false, true})
	require.NoError(t, err)

	global := []float64{10, 20, 30}
	dst := make([]float64, 2)

	m.Params(dst, 0, global)
	require.Equal(t, []float64{10, 20}, dst)
	m.Params(dst, 1, global)
	require.Equal(t, []float64{30, 20}, dst)
}

func TestBuild_Errors(t *testing.T) {
	_, err := Build(2, nil, nil)
	require.ErrorIs(t, err, errs.ErrInvalidParameterMap)

	_, err = Build(2, []int{3}, []bool{true})
	require.ErrorIs(t, err, errs.ErrInvalidParameterMap)

	_, err = Build(-1, []int{3}, nil)
	require.ErrorIs(t, err, errs.ErrInvalidParameterMap)

	_, err = Build(1, []int{-3}, nil)
	require.ErrorIs(t, err, errs.ErrInvalidParameterMap)
}

func TestValidate_DetectsCorruption(t *testing.T) {
	m, err := Build(2, []int{1, 1}, []bool{true, false})
	require.NoError(t, err)

	m.Entries[1] = []int{1, 2}
	require.ErrorIs(t, m.Validate(), errs.ErrInvalidParameterMap)

	m.Entries[1] = []int{0, 9}
	require.ErrorIs(t, m.Validate(), errs.ErrInvalidParameterMap)
}
