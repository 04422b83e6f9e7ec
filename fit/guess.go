package fit

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/rjhudspith/urfit/internal/linalg"
	"github.com/rjhudspith/urfit/padelaplace"
)

// Heuristic starting values of the ratio model.
const (
	ratioAmplitudeGuess = 0.1
	ratioGapGuess       = 0.5
)

// guessFunc returns the guess routine of model. The returned function fills
// every logical parameter, applies jitter and then priors.
func (d *Descriptor) guessFunc(model Model) func(*Dataset) ([]float64, error) {
	return func(data *Dataset) ([]float64, error) {
		global := make([]float64, d.Nlogic)

		var err error
		switch m := model.(type) {
		case polyModel:
			global, err = d.GLS(data, nil)
		case expModel:
			d.perDataset(data, global, func(xs, ys []float64) []float64 {
				return d.exponentials(xs, ys, m.n)
			})
		case coshModel:
			d.perDataset(data, global, func(xs, ys []float64) []float64 {
				// the forward exponential dominates the first half
				keep := 0
				for keep < len(xs) && xs[keep] <= data.LT/2 {
					keep++
				}

				return d.exponentials(xs[:keep], ys[:keep], m.n)
			})
		case expConstModel:
			d.perDataset(data, global, d.expConst)
		case poleModel:
			d.perDataset(data, global, d.pole)
		case ratioModel:
			d.perDataset(data, global, ratio)
		}
		if err != nil {
			return nil, err
		}

		d.jitter(global)
		d.ctx.applyPriors(global)

		return global, nil
	}
}

// perDataset runs guess on the averaged points of every dataset and writes
// the local result through the parameter map. Shared positions keep the
// value of the first dataset that guesses them.
func (d *Descriptor) perDataset(data *Dataset, global []float64, guess func(xs, ys []float64) []float64) {
	assigned := make([]bool, d.Nlogic)
	for sim := range data.Nsim() {
		if len(data.Y[sim]) == 0 {
			continue
		}
		xs, ys := data.subset(sim)
		local := guess(xs, ys)
		for p, idx := range d.Map.Layout(sim) {
			if assigned[idx] {
				continue
			}
			global[idx] = local[p]
			assigned[idx] = true
		}
	}
}

// exponentials returns interleaved (amplitude, mass) pairs from
// Pade-Laplace, falling back to the effective mass of the first two points.
func (d *Descriptor) exponentials(xs, ys []float64, n int) []float64 {
	est, err := padelaplace.Estimate(xs, ys, n, padelaplace.WithProbePoint(d.ctx.ProbePoint))
	if err == nil {
		return est
	}

	d.ctx.logger().WithError(err).WithField("model", d.Type.String()).
		Warn("pade-laplace guess failed, using effective mass")

	return effectiveGuess(xs, ys, n)
}

// effectiveGuess places the lowest mass at the effective mass of the first
// two points and spaces the others above it.
func effectiveGuess(xs, ys []float64, n int) []float64 {
	out := make([]float64, 2*n)
	if len(ys) == 0 {
		return out
	}

	m := 1.0
	if len(ys) > 1 && ys[0]*ys[1] > 0 && xs[1] != xs[0] {
		if em := math.Log(ys[0]/ys[1]) / (xs[1] - xs[0]); em > 0 && !math.IsInf(em, 0) {
			m = em
		}
	}

	a := ys[0] * math.Exp(m*xs[0])
	for k := range n {
		out[2*k] = a / float64(n)
		out[2*k+1] = m * float64(k+1)
	}

	return out
}

// expConst estimates the mass from the differenced data, which removes the
// constant, then fits amplitude and constant linearly.
func (d *Descriptor) expConst(xs, ys []float64) []float64 {
	if len(ys) < 2 {
		return []float64{firstOr(ys, 0), 1, 0}
	}

	dx := xs[:len(xs)-1]
	dy := make([]float64, len(ys)-1)
	for i := range dy {
		dy[i] = ys[i] - ys[i+1]
	}
	m := d.exponentials(dx, dy, 1)[1]

	a := mat.NewDense(len(xs), 2, nil)
	for i, x := range xs {
		a.Set(i, 0, math.Exp(-m*x))
		a.Set(i, 1, 1)
	}
	ac, err := linalg.LeastSquares(a, ys, linalg.Tolerance(len(xs)))
	if err != nil {
		d.ctx.logger().WithError(err).Warn("expconst amplitude guess failed")

		return []float64{ys[0] - ys[len(ys)-1], m, ys[len(ys)-1]}
	}

	return []float64{ac[0], m, ac[1]}
}

// pole fits 1/y = M/A − x/A as a straight line.
func (d *Descriptor) pole(xs, ys []float64) []float64 {
	a := mat.NewDense(len(xs), 2, nil)
	inv := make([]float64, len(ys))
	for i, x := range xs {
		a.Set(i, 0, 1)
		a.Set(i, 1, x)
		inv[i] = 1 / ys[i]
	}

	c, err := linalg.LeastSquares(a, inv, linalg.Tolerance(len(xs)))
	if err != nil || c[1] == 0 {
		d.ctx.logger().WithError(err).Warn("pole guess failed, using unit amplitude")

		return []float64{1, firstOr(xs, 0) + 1}
	}

	amp := -1 / c[1]

	return []float64{amp, c[0] * amp}
}

// ratio starts from the last point as the plateau with a small contamination.
func ratio(_, ys []float64) []float64 {
	return []float64{firstOr(ys[len(ys)-1:], 1), ratioAmplitudeGuess, ratioGapGuess}
}

func (d *Descriptor) jitter(global []float64) {
	if d.ctx.Jitter <= 0 || d.ctx.RNG == nil {
		return
	}
	for i := range global {
		global[i] *= 1 + d.ctx.Jitter*d.ctx.RNG.NormFloat64()
	}
}

func firstOr(v []float64, def float64) float64 {
	if len(v) == 0 {
		return def
	}

	return v[0]
}
