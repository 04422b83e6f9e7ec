// Package linalg wraps the gonum factorizations used by the fitting code and
// maps their failures onto errs.ErrSingularMatrix.
package linalg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/rjhudspith/urfit/errs"
)

// Tolerance returns the relative singular-value cutoff n·ε for an n×n problem.
func Tolerance(n int) float64 {
	if n < 1 {
		n = 1
	}

	return float64(n) * 0x1p-52
}

// Inverse inverts the square matrix a through its singular value
// decomposition, a⁻¹ = V·diag(1/s)·Uᵀ. It fails with errs.ErrSingularMatrix
// when the smallest singular value falls below rcond times the largest.
func Inverse(a mat.Matrix, rcond float64) (*mat.Dense, error) {
	r, c := a.Dims()
	if r != c {
		return nil, fmt.Errorf("%w: cannot invert %dx%d matrix", errs.ErrInvalidDimensions, r, c)
	}

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, fmt.Errorf("%w: svd factorization failed", errs.ErrSingularMatrix)
	}

	s := svd.Values(nil)
	if s[0] == 0 || s[len(s)-1]/s[0] < rcond || math.IsNaN(s[len(s)-1]) {
		return nil, fmt.Errorf("%w: condition number %g exceeds %g", errs.ErrSingularMatrix, s[0]/s[len(s)-1], 1/rcond)
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	for j, sv := range s {
		col := v.ColView(j).(*mat.VecDense)
		col.ScaleVec(1/sv, col)
	}

	inv := mat.NewDense(r, r, nil)
	inv.Mul(&v, u.T())

	return inv, nil
}

// LeastSquares returns the minimum-norm x minimising ‖a·x − b‖₂. Singular
// values below rcond times the largest are discarded.
func LeastSquares(a mat.Matrix, b []float64, rcond float64) ([]float64, error) {
	r, c := a.Dims()
	if r != len(b) {
		return nil, fmt.Errorf("%w: %dx%d design against %d observations", errs.ErrInvalidDimensions, r, c, len(b))
	}

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, fmt.Errorf("%w: svd factorization failed", errs.ErrSingularMatrix)
	}

	rank := svd.Rank(rcond)
	if rank == 0 {
		return nil, fmt.Errorf("%w: design matrix is numerically zero", errs.ErrSingularMatrix)
	}

	var x mat.VecDense
	svd.SolveVecTo(&x, mat.NewVecDense(len(b), b), rank)

	out := make([]float64, c)
	for i := range out {
		out[i] = x.AtVec(i)
	}

	return out, nil
}

// Solve returns x with a·x = b, using an LU factorization.
func Solve(a, b mat.Matrix) (*mat.Dense, error) {
	var x mat.Dense
	if err := x.Solve(a, b); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrSingularMatrix, err)
	}

	return &x, nil
}

// SymmetricFrom returns (a+aᵀ)/2, removing round-off asymmetry from a
// product that is symmetric in exact arithmetic.
func SymmetricFrom(a mat.Matrix) *mat.SymDense {
	n, _ := a.Dims()
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s.SetSym(i, j, 0.5*(a.At(i, j)+a.At(j, i)))
		}
	}

	return s
}
