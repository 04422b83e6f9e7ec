package padelaplace

import (
	"cmp"
	"fmt"
	"math"
	"math/cmplx"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/rjhudspith/urfit/errs"
	"github.com/rjhudspith/urfit/internal/linalg"
	"github.com/rjhudspith/urfit/internal/options"
	"github.com/rjhudspith/urfit/internal/polyroot"
)

// MaxOrder is the largest derivative order supported by the factorial table.
const MaxOrder = 168

var logFactorial = func() [MaxOrder + 1]float64 {
	var t [MaxOrder + 1]float64
	for k := 1; k <= MaxOrder; k++ {
		t[k] = t[k-1] + math.Log(float64(k))
	}

	return t
}()

// Class classifies a pole of the Pade approximant.
type Class uint8

const (
	// Good poles are real with a negative real part.
	Good Class = iota
	// Ugly poles have a negative real part and a significant imaginary part.
	Ugly
	// Bad poles have a non-negative real part and describe no decay.
	Bad
)

func (c Class) String() string {
	switch c {
	case Good:
		return "good"
	case Ugly:
		return "ugly"
	case Bad:
		return "bad"
	default:
		return "unknown"
	}
}

// Pole is a denominator root shifted back to the Laplace variable.
type Pole struct {
	P     complex128
	Class Class
}

// Mass returns the decay rate carried by the pole: −Re(p) for stable poles
// and |p| for bad ones.
func (p Pole) Mass() float64 {
	if p.Class == Bad {
		return cmplx.Abs(p.P)
	}

	return -real(p.P)
}

// Decomposition is the outcome of an estimate.
type Decomposition struct {
	Masses     []float64
	Amplitudes []float64
	// Poles of the accepted trial, in selection order.
	Poles []Pole
	// Degree is the denominator degree of the accepted trial.
	Degree int
	// Good is the number of good poles in the accepted trial.
	Good int
}

// Pairs returns the interleaved (amplitude, mass) pairs.
func (d *Decomposition) Pairs() []float64 {
	out := make([]float64, 0, 2*len(d.Masses))
	for i, m := range d.Masses {
		out = append(out, d.Amplitudes[i], m)
	}

	return out
}

// Estimate returns nexp interleaved (amplitude, mass) pairs describing y(x).
func Estimate(x, y []float64, nexp int, opts ...Option) ([]float64, error) {
	d, err := Decompose(x, y, nexp, opts...)
	if err != nil {
		return nil, err
	}

	return d.Pairs(), nil
}

// Decompose runs the estimator and returns the full decomposition.
//
// Denominator degrees nexp through nexp+7 are tried in turn. The first degree
// producing at least nexp good poles is accepted; otherwise the degree with
// the most good poles wins. Degrees whose linear system or root search fails
// are skipped.
func Decompose(x, y []float64, nexp int, opts ...Option) (*Decomposition, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	if nexp < 1 {
		return nil, fmt.Errorf("%w: need at least one exponential, got %d", errs.ErrInvalidDimensions, nexp)
	}
	// derivative orders run from 0 to nders−1
	nders := 4*(nexp+8) + 1
	if nders-1 > MaxOrder {
		return nil, fmt.Errorf("%w: derivative order %d for %d exponentials, at most %d supported",
			errs.ErrTooManyExponentials, nders-1, nexp, MaxOrder)
	}
	if len(x) != len(y) || len(x) < nexp+2 {
		return nil, fmt.Errorf("%w: %d abscissae, %d ordinates for %d exponentials", errs.ErrInvalidDimensions, len(x), len(y), nexp)
	}

	for i := 1; i < len(x); i++ {
		if !(x[i] > x[i-1]) {
			return nil, fmt.Errorf("%w: abscissae must increase, x[%d]=%g after %g", errs.ErrInvalidDimensions, i, x[i], x[i-1])
		}
	}

	c := Moments(x, y, cfg.ProbePoint, nders)

	var (
		best     []Pole
		bestGood = -1
		bestDeg  int
	)
	for m := nexp; m <= nexp+extraTrials; m++ {
		poles, err := trial(c, m, cfg)
		if err != nil {
			continue
		}

		good := 0
		for _, p := range poles {
			if p.Class == Good {
				good++
			}
		}
		if good > bestGood {
			best, bestGood, bestDeg = poles, good, m
		}
		if good >= nexp {
			break
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: no Pade trial between degree %d and %d produced poles",
			errs.ErrNotConverged, nexp, nexp+extraTrials)
	}

	selected := selectPoles(best, nexp)
	masses := make([]float64, nexp)
	for i, p := range selected {
		masses[i] = p.Mass()
	}

	amps, err := amplitudes(x, y, masses)
	if err != nil {
		return nil, err
	}

	return &Decomposition{
		Masses:     masses,
		Amplitudes: amps,
		Poles:      selected,
		Degree:     bestDeg,
		Good:       bestGood,
	}, nil
}

// Moments returns the Taylor coefficients
//
//	c_k = (1/k!) ∫ (−t)ᵏ y(t) exp(−p0·t) dt,  k = 0..n−1,
//
// of the Laplace transform of y around p0, with t = x − x[0]. Each interval
// between consecutive samples is integrated with Simpson's rule using the
// linearly interpolated midpoint value of y.
func Moments(x, y []float64, p0 float64, n int) []float64 {
	c := make([]float64, n)
	weight := func(k int, t float64) float64 {
		if k == 0 {
			return math.Exp(-p0 * t)
		}
		if t == 0 {
			return 0
		}
		v := math.Exp(float64(k)*math.Log(t) - logFactorial[k] - p0*t)
		if k%2 == 1 {
			return -v
		}

		return v
	}

	for i := 0; i+1 < len(x); i++ {
		t0 := x[i] - x[0]
		t1 := x[i+1] - x[0]
		tm := 0.5 * (t0 + t1)
		ym := 0.5 * (y[i] + y[i+1])
		h := (t1 - t0) / 6
		for k := range c {
			c[k] += h * (weight(k, t0)*y[i] + 4*weight(k, tm)*ym + weight(k, t1)*y[i+1])
		}
	}

	return c
}

// trial solves the [m−1/m] Pade problem and returns the classified poles.
func trial(c []float64, m int, cfg *Config) ([]Pole, error) {
	if 2*m > len(c) {
		return nil, fmt.Errorf("%w: %d moments for degree %d", errs.ErrInvalidDimensions, len(c), m)
	}

	// Σ_{j=1..m} q_j c_{k−j} = −c_k for k = m..2m−1
	h := mat.NewDense(m, m, nil)
	rhs := make([]float64, m)
	for r := 0; r < m; r++ {
		k := m + r
		for j := 1; j <= m; j++ {
			h.Set(r, j-1, c[k-j])
		}
		rhs[r] = -c[k]
	}

	q, err := linalg.LeastSquares(h, rhs, 1e-14)
	if err != nil {
		return nil, err
	}

	den := make([]float64, m+1)
	den[0] = 1
	copy(den[1:], q)

	roots, err := polyroot.RootsAsc(den)
	if err != nil {
		return nil, err
	}

	poles := make([]Pole, len(roots))
	for i, s := range roots {
		p := s + complex(cfg.ProbePoint, 0)
		poles[i] = Pole{P: p, Class: classify(p, cfg)}
	}

	return poles, nil
}

func classify(p complex128, cfg *Config) Class {
	if real(p) >= 0 {
		return Bad
	}
	if math.Abs(imag(p)) <= cfg.ImagTolerance*cmplx.Abs(p)+cfg.AbsTolerance {
		return Good
	}

	return Ugly
}

// selectPoles orders poles good first, then ugly, then bad, each by
// ascending |p|, and keeps the first n.
func selectPoles(poles []Pole, n int) []Pole {
	sorted := slices.Clone(poles)
	slices.SortStableFunc(sorted, func(a, b Pole) int {
		if a.Class != b.Class {
			return cmp.Compare(a.Class, b.Class)
		}

		return cmp.Compare(cmplx.Abs(a.P), cmplx.Abs(b.P))
	})

	return sorted[:n]
}

// amplitudes fits y(x_i) = Σ_j A_j·exp(−m_j·x_i) for i ≥ 1 by SVD least squares.
func amplitudes(x, y, masses []float64) ([]float64, error) {
	rows := len(x) - 1
	a := mat.NewDense(rows, len(masses), nil)
	b := make([]float64, rows)
	for i := 1; i < len(x); i++ {
		for j, m := range masses {
			a.Set(i-1, j, math.Exp(-m*x[i]))
		}
		b[i-1] = y[i]
	}

	amps, err := linalg.LeastSquares(a, b, linalg.Tolerance(rows))
	if err != nil {
		return nil, fmt.Errorf("amplitude solve: %w", err)
	}

	return amps, nil
}
