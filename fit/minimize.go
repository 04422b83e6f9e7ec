package fit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/rjhudspith/urfit/covariance"
	"github.com/rjhudspith/urfit/errs"
	"github.com/rjhudspith/urfit/internal/linalg"
)

// maxDamping ends the iteration when no step can lower the chi-square.
const maxDamping = 1e20

// Solution is the outcome of one minimisation.
type Solution struct {
	// Params holds the Nlogic fitted parameters.
	Params []float64
	// ChiSq includes the prior penalties.
	ChiSq float64
	// Iterations counts accepted and rejected steps.
	Iterations int
}

// Minimize fits desc to the averages of data by Levenberg-Marquardt,
// starting from init. A nil winv weights every point equally.
//
// Parameters:
//   - desc: fit descriptor from Dispatch
//   - data: dataset the descriptor was built for
//   - winv: inverse covariance, Ntot×Ntot, or nil
//   - init: starting point with Nlogic entries, or nil to use desc.Guess
//   - opts: iteration limit, tolerance and damping
//
// Returns:
//   - *Solution: the minimum
//   - error: errs.ErrNotConverged when the iteration limit is reached
func Minimize(desc *Descriptor, data *Dataset, winv mat.Symmetric, init []float64, opts ...MinimizeOption) (*Solution, error) {
	cfg, err := newMinimizeConfig(opts...)
	if err != nil {
		return nil, err
	}
	if err := desc.checkShapes(data, winv, init); err != nil {
		return nil, err
	}

	if init == nil {
		if init, err = desc.Guess(data); err != nil {
			return nil, fmt.Errorf("guess: %w", err)
		}
	}

	xs, ys := data.values(-1)

	return desc.minimize(xs, ys, winv, init, cfg)
}

func (d *Descriptor) checkShapes(data *Dataset, winv mat.Symmetric, init []float64) error {
	if data.Ntot() != d.Map.Ntot() {
		return fmt.Errorf("%w: dataset has %d points, descriptor %d", errs.ErrInvalidDimensions, data.Ntot(), d.Map.Ntot())
	}
	if init != nil && len(init) != d.Nlogic {
		return fmt.Errorf("%w: %d initial parameters for %d", errs.ErrInvalidDimensions, len(init), d.Nlogic)
	}
	if winv != nil && winv.SymmetricDim() != data.Ntot() {
		return fmt.Errorf("%w: %dx%d weights for %d points", errs.ErrInvalidDimensions,
			winv.SymmetricDim(), winv.SymmetricDim(), data.Ntot())
	}

	return nil
}

// chiSquare returns the weighted residual norm plus the prior penalties.
func (d *Descriptor) chiSquare(r []float64, winv mat.Symmetric, p []float64) float64 {
	var chi float64
	if winv == nil {
		for _, v := range r {
			chi += v * v
		}
	} else {
		chi = covariance.ChiSquare(r, winv)
	}

	for _, pr := range d.ctx.Priors {
		if pr.Width > 0 {
			z := (p[pr.Index] - pr.Value) / pr.Width
			chi += z * z
		}
	}

	return chi
}

// normal returns JᵀWJ and JᵀW·r with the prior terms added.
func (d *Descriptor) normal(j *mat.Dense, r []float64, winv mat.Symmetric, p []float64) (*mat.Dense, []float64) {
	rv := mat.NewVecDense(len(r), r)

	var wj mat.Dense
	var wr mat.VecDense
	if winv == nil {
		wj.CloneFrom(j)
		wr.CloneFromVec(rv)
	} else {
		wj.Mul(winv, j)
		wr.MulVec(winv, rv)
	}

	jtj := mat.NewDense(d.Nlogic, d.Nlogic, nil)
	jtj.Mul(j.T(), &wj)
	var g mat.VecDense
	g.MulVec(j.T(), &wr)
	grad := g.RawVector().Data

	for _, pr := range d.ctx.Priors {
		if pr.Width > 0 {
			w2 := 1 / (pr.Width * pr.Width)
			jtj.Set(pr.Index, pr.Index, jtj.At(pr.Index, pr.Index)+w2)
			grad[pr.Index] += (p[pr.Index] - pr.Value) * w2
		}
	}

	return jtj, grad
}

func (d *Descriptor) minimize(xs, ys []float64, winv mat.Symmetric, init []float64, cfg *MinimizeConfig) (*Solution, error) {
	p := make([]float64, d.Nlogic)
	copy(p, init)

	r := make([]float64, len(xs))
	j := mat.NewDense(len(xs), d.Nlogic, nil)
	d.residuals(r, xs, ys, p)
	chi := d.chiSquare(r, winv, p)
	if math.IsNaN(chi) || math.IsInf(chi, 0) {
		return nil, fmt.Errorf("%w: non-finite chi-square at the starting point", errs.ErrNotConverged)
	}

	trial := make([]float64, d.Nlogic)
	rt := make([]float64, len(xs))
	lambda := cfg.Damping

	for iter := 1; iter <= cfg.MaxIterations; iter++ {
		d.jacobian(j, xs, p)
		jtj, grad := d.normal(j, r, winv, p)

		a := mat.DenseCopyOf(jtj)
		for i := 0; i < d.Nlogic; i++ {
			diag := jtj.At(i, i)
			if diag == 0 {
				diag = 1
			}
			a.Set(i, i, diag*(1+lambda))
		}
		for i := range grad {
			grad[i] = -grad[i]
		}

		step, err := linalg.LeastSquares(a, grad, linalg.Tolerance(d.Nlogic))
		if err != nil {
			return nil, fmt.Errorf("levenberg-marquardt step %d: %w", iter, err)
		}

		for i := range trial {
			trial[i] = p[i] + step[i]
		}
		d.residuals(rt, xs, ys, trial)
		chiTrial := d.chiSquare(rt, winv, trial)

		if chiTrial < chi && !math.IsNaN(chiTrial) {
			done := chi-chiTrial <= cfg.Tolerance*(chiTrial+cfg.Tolerance)
			copy(p, trial)
			copy(r, rt)
			chi = chiTrial
			lambda /= 10
			if done {
				return &Solution{Params: p, ChiSq: chi, Iterations: iter}, nil
			}

			continue
		}

		lambda *= 10
		if lambda > maxDamping {
			return &Solution{Params: p, ChiSq: chi, Iterations: iter}, nil
		}
	}

	return nil, fmt.Errorf("%w: %d iterations, chi-square %g", errs.ErrNotConverged, cfg.MaxIterations, chi)
}
