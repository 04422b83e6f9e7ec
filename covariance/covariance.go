// Package covariance estimates the covariance of a set of resampled
// observables and builds the weight matrix used by chi-square fits.
package covariance

import (
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/rjhudspith/urfit/errs"
	"github.com/rjhudspith/urfit/format"
	"github.com/rjhudspith/urfit/internal/linalg"
	"github.com/rjhudspith/urfit/resample"
)

// Result holds the covariance of n observables under a weighting mode.
// Cov is nil for format.WeightingUnweighted.
type Result struct {
	Weighting format.Weighting
	N         int
	Cov       *mat.SymDense
}

// Build estimates the covariance of data. Every distribution must share the
// sample count and scheme of data[0].
//
// Uncorrelated weighting fills the diagonal only. Correlated weighting fills
// the upper triangle one row per task and mirrors it, so the result is
// exactly symmetric.
func Build(data []*resample.Distribution, w format.Weighting) (*Result, error) {
	res := &Result{Weighting: w, N: len(data)}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no observables", errs.ErrEmptyDataset)
	}
	if err := resample.CompatibleAll(data); err != nil {
		return nil, err
	}
	if w == format.WeightingUnweighted {
		return res, nil
	}
	if w != format.WeightingCorrelated && w != format.WeightingUncorrelated {
		return nil, fmt.Errorf("%w: unknown weighting %d", errs.ErrInvalidDimensions, w)
	}

	n := len(data)
	ns := data[0].Len()
	norm := resample.Norm(data[0].Scheme, ns)

	// deviations from the sample mean, one row per observable
	dev := make([][]float64, n)
	for i, d := range data {
		mean := d.Mean()
		row := make([]float64, ns)
		for k, v := range d.Samples {
			row[k] = v - mean
		}
		dev[i] = row
	}

	cov := make([]float64, n*n)

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < n; i++ {
		g.Go(func() error {
			last := n
			if w == format.WeightingUncorrelated {
				last = i + 1
			}
			for j := i; j < last; j++ {
				sum := 0.0
				for k := 0; k < ns; k++ {
					sum += dev[i][k] * dev[j][k]
				}
				cov[i*n+j] = sum * norm
			}

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			cov[j*n+i] = cov[i*n+j]
		}
	}
	res.Cov = mat.NewSymDense(n, cov)

	return res, nil
}

// Errors returns the square root of the diagonal, or nil when unweighted.
func (r *Result) Errors() []float64 {
	if r.Cov == nil {
		return nil
	}

	out := make([]float64, r.N)
	for i := range out {
		out[i] = math.Sqrt(r.Cov.At(i, i))
	}

	return out
}

// Modified returns the correlation-normalised matrix C[i][j]/sqrt(C[i][i]·C[j][j])
// used for display. Rows with a zero variance are left zero.
func (r *Result) Modified() *mat.SymDense {
	if r.Cov == nil {
		return nil
	}

	sd := r.Errors()
	out := mat.NewSymDense(r.N, nil)
	for i := 0; i < r.N; i++ {
		for j := i; j < r.N; j++ {
			den := sd[i] * sd[j]
			if den == 0 {
				continue
			}
			out.SetSym(i, j, r.Cov.At(i, j)/den)
		}
	}

	return out
}

// Inverse returns the weight matrix for r.
//
// Unweighted gives the identity and Uncorrelated the reciprocal of the
// diagonal. Correlated inverts the full covariance by SVD and fails with
// errs.ErrSingularMatrix when it is singular to working precision.
func Inverse(r *Result) (*mat.SymDense, error) {
	inv := mat.NewSymDense(r.N, nil)

	switch r.Weighting {
	case format.WeightingUnweighted:
		for i := 0; i < r.N; i++ {
			inv.SetSym(i, i, 1)
		}
	case format.WeightingUncorrelated:
		for i := 0; i < r.N; i++ {
			v := r.Cov.At(i, i)
			if v == 0 {
				return nil, fmt.Errorf("%w: zero variance at index %d", errs.ErrSingularMatrix, i)
			}
			inv.SetSym(i, i, 1/v)
		}
	case format.WeightingCorrelated:
		dense, err := linalg.Inverse(r.Cov, linalg.Tolerance(r.N))
		if err != nil {
			return nil, fmt.Errorf("invert %dx%d covariance: %w", r.N, r.N, err)
		}
		inv = linalg.SymmetricFrom(dense)
	default:
		return nil, fmt.Errorf("%w: unknown weighting %d", errs.ErrInvalidDimensions, r.Weighting)
	}

	return inv, nil
}

// ChiSquare returns rᵀ·W·r.
func ChiSquare(r []float64, w mat.Matrix) float64 {
	if len(r) == 0 {
		return 0
	}
	v := mat.NewVecDense(len(r), r)

	return mat.Inner(v, w, v)
}
