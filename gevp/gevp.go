// Package gevp solves the generalized eigenvalue problem A·v = λ·B·v used to
// extract ordered spectra from correlator matrices.
package gevp

import (
	"fmt"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/rjhudspith/urfit/errs"
	"github.com/rjhudspith/urfit/internal/linalg"
	"github.com/rjhudspith/urfit/resample"
)

// Order selects how eigenvalues are sorted by absolute value.
type Order uint8

const (
	// Ascending orders states before the reference time slice.
	Ascending Order = iota
	// Descending orders states after the reference time slice.
	Descending
)

func (o Order) String() string {
	if o == Descending {
		return "descending"
	}

	return "ascending"
}

// Solve returns the real parts of the eigenvalues of B⁻¹·A sorted by |λ|.
// Ties keep the order of the decomposition. Nothing is returned on error.
func Solve(a, b mat.Matrix, order Order) ([]float64, error) {
	ra, ca := a.Dims()
	rb, cb := b.Dims()
	if ra != ca || rb != cb || ra != rb {
		return nil, fmt.Errorf("%w: A is %dx%d, B is %dx%d", errs.ErrInvalidDimensions, ra, ca, rb, cb)
	}

	x, err := linalg.Solve(b, a)
	if err != nil {
		return nil, fmt.Errorf("solve B·X = A: %w", err)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(x, mat.EigenNone); !ok {
		return nil, fmt.Errorf("%w: eigen decomposition did not converge", errs.ErrSingularMatrix)
	}

	values := eig.Values(nil)
	out := make([]float64, len(values))
	for i, v := range values {
		if math.IsNaN(real(v)) {
			return nil, fmt.Errorf("%w: eigenvalue %d is NaN", errs.ErrSingularMatrix, i)
		}
		out[i] = real(v)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if order == Descending {
			return math.Abs(out[i]) > math.Abs(out[j])
		}

		return math.Abs(out[i]) < math.Abs(out[j])
	})

	return out, nil
}

// SolveResampled solves the problem for the averages and for every sample
// of the n×n distribution matrices a and b. The k-th returned distribution
// holds the k-th eigenvalue of each sample, with the ordering applied
// sample by sample.
func SolveResampled(a, b [][]*resample.Distribution, order Order) ([]*resample.Distribution, error) {
	n := len(a)
	if n == 0 || len(b) != n {
		return nil, fmt.Errorf("%w: %d and %d rows", errs.ErrInvalidDimensions, len(a), len(b))
	}

	flat := make([]*resample.Distribution, 0, 2*n*n)
	for i := 0; i < n; i++ {
		if len(a[i]) != n || len(b[i]) != n {
			return nil, fmt.Errorf("%w: row %d is not square", errs.ErrInvalidDimensions, i)
		}
		flat = append(flat, a[i]...)
		flat = append(flat, b[i]...)
	}
	if err := resample.CompatibleAll(flat); err != nil {
		return nil, err
	}

	ref := a[0][0]
	ns := ref.Len()
	out := make([]*resample.Distribution, n)
	for i := range out {
		out[i] = resample.New(ns, ref.Scheme)
	}

	avg, err := Solve(matrixAt(a, -1), matrixAt(b, -1), order)
	if err != nil {
		return nil, fmt.Errorf("average: %w", err)
	}
	for i, v := range avg {
		out[i].Average = v
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for k := 0; k < ns; k++ {
		g.Go(func() error {
			vals, err := Solve(matrixAt(a, k), matrixAt(b, k), order)
			if err != nil {
				return fmt.Errorf("sample %d: %w", k, err)
			}
			for i, v := range vals {
				out[i].Samples[k] = v
			}

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, d := range out {
		d.ComputeErr()
	}

	return out, nil
}

// matrixAt builds the matrix of sample k, or of the averages when k < 0.
func matrixAt(m [][]*resample.Distribution, k int) *mat.Dense {
	n := len(m)
	out := mat.NewDense(n, n, nil)
	for i, row := range m {
		for j, d := range row {
			if k < 0 {
				out.Set(i, j, d.Average)
			} else {
				out.Set(i, j, d.Samples[k])
			}
		}
	}

	return out
}

// Energies converts eigenvalues λ(t) = exp(−E·dt) into energies
// E = −log(λ)/dt. The policy decides what happens to non-positive eigenvalues.
func Energies(lambdas []*resample.Distribution, dt float64, policy resample.DomainPolicy) ([]*resample.Distribution, error) {
	if dt == 0 {
		return nil, fmt.Errorf("%w: zero time separation", errs.ErrInvalidDimensions)
	}

	out := make([]*resample.Distribution, len(lambdas))
	for i, l := range lambdas {
		e := l.Clone()
		if err := e.LogChecked(policy); err != nil {
			return nil, fmt.Errorf("state %d: %w", i, err)
		}
		e.MulConstant(-1 / dt)
		out[i] = e
	}

	return out, nil
}
