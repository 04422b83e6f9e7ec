package fit

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/rjhudspith/urfit/errs"
	"github.com/rjhudspith/urfit/internal/linalg"
)

// GLS solves the generalised least-squares problem of a linear model on the
// averages of data: minimise (A·p − y)ᵀ·W·(A·p − y) with A the design
// matrix. A nil winv weights every point equally.
//
// The normal equations AᵀWA·p = AᵀW·y are solved by SVD least squares, so
// a rank-deficient design yields the minimum-norm solution.
func (d *Descriptor) GLS(data *Dataset, winv mat.Symmetric) ([]float64, error) {
	if d.Linearize == nil {
		return nil, fmt.Errorf("%w: %s is not linear in its parameters", errs.ErrUnknownModel, d.Type)
	}

	a := d.Linearize(data)
	_, ys := data.values(-1)
	if winv != nil {
		if n := winv.SymmetricDim(); n != len(ys) {
			return nil, fmt.Errorf("%w: %dx%d weights for %d points", errs.ErrInvalidDimensions, n, n, len(ys))
		}
	}

	return gls(a, ys, winv)
}

func gls(a *mat.Dense, ys []float64, winv mat.Symmetric) ([]float64, error) {
	_, c := a.Dims()
	y := mat.NewVecDense(len(ys), ys)

	var wa mat.Dense
	var wy mat.VecDense
	if winv == nil {
		wa.CloneFrom(a)
		wy.CloneFromVec(y)
	} else {
		wa.Mul(winv, a)
		wy.MulVec(winv, y)
	}

	normal := mat.NewDense(c, c, nil)
	normal.Mul(a.T(), &wa)
	var rhs mat.VecDense
	rhs.MulVec(a.T(), &wy)

	p, err := linalg.LeastSquares(normal, rhs.RawVector().Data, linalg.Tolerance(c))
	if err != nil {
		return nil, fmt.Errorf("gls normal equations: %w", err)
	}

	return p, nil
}
