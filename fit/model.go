package fit

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/rjhudspith/urfit/errs"
)

// ModelType identifies a fit model.
type ModelType int

const (
	// ModelTypeExp is a sum of N exponentials: Σ Aₖ·exp(−mₖ·x).
	ModelTypeExp ModelType = iota
	// ModelTypeExpConst is one exponential plus a constant: A·exp(−m·x) + C.
	ModelTypeExpConst
	// ModelTypeCosh is a sum of N periodic exponentials:
	// Σ Aₖ·(exp(−mₖ·x) + exp(−mₖ·(LT−x))).
	ModelTypeCosh
	// ModelTypePoly is a polynomial of degree N in x − x_ref.
	ModelTypePoly
	// ModelTypePole is a single pole: A / (M − x).
	ModelTypePole
	// ModelTypeRatio is an amplitude ratio with an excited-state
	// contamination: R·(1 + A·exp(−Δ·x)).
	ModelTypeRatio
)

var modelTypeNames = map[ModelType]string{
	ModelTypeExp:      "exp",
	ModelTypeExpConst: "expconst",
	ModelTypeCosh:     "cosh",
	ModelTypePoly:     "poly",
	ModelTypePole:     "pole",
	ModelTypeRatio:    "ratio",
}

func (mt ModelType) String() string {
	if name, exists := modelTypeNames[mt]; exists {
		return name
	}

	return "unknown"
}

var modelTypeFromString = map[string]ModelType{
	"exp":      ModelTypeExp,
	"expconst": ModelTypeExpConst,
	"cosh":     ModelTypeCosh,
	"poly":     ModelTypePoly,
	"pole":     ModelTypePole,
	"ratio":    ModelTypeRatio,
}

// ModelTypeFromString returns the model for a case-insensitive name.
func ModelTypeFromString(name string) (ModelType, error) {
	if mt, exists := modelTypeFromString[strings.ToLower(name)]; exists {
		return mt, nil
	}

	supported := make([]string, 0, len(modelTypeNames))
	for _, n := range modelTypeNames {
		supported = append(supported, n)
	}
	slices.Sort(supported)

	return ModelType(-1), fmt.Errorf("%w: %q, supported: %s", errs.ErrUnknownModel, name, strings.Join(supported, ", "))
}

// aux carries the per-evaluation constants a model may need.
type aux struct {
	// LT is the periodic extent used by cosh-like models.
	LT float64
	// Ref is the expansion point of the polynomial model.
	Ref float64
}

// Model is a closed set of fit functions. Each implementation evaluates one
// datapoint from its Nparam local parameters.
type Model interface {
	Type() ModelType
	// Nparam is the number of parameters of one datapoint.
	Nparam() int
	// Eval returns the model at x.
	Eval(x float64, p []float64, a aux) float64
	// Grad writes ∂f/∂p into dst.
	Grad(dst []float64, x float64, p []float64, a aux)

	sealed()
}

// curvature is implemented by models with an analytic second derivative.
type curvature interface {
	// Hess writes ∂²f/∂pᵢ∂pⱼ into dst in row-major order.
	Hess(dst []float64, x float64, p []float64, a aux)
}

// linear is implemented by models that are linear in their parameters.
type linear interface {
	// Basis writes ∂f/∂p, which does not depend on p, into dst.
	Basis(dst []float64, x float64, a aux)
}

type expModel struct{ n int }

func (m expModel) Type() ModelType { return ModelTypeExp }
func (m expModel) Nparam() int     { return 2 * m.n }
func (expModel) sealed()           {}

func (m expModel) Eval(x float64, p []float64, _ aux) float64 {
	sum := 0.0
	for k := 0; k < m.n; k++ {
		sum += p[2*k] * math.Exp(-p[2*k+1]*x)
	}

	return sum
}

func (m expModel) Grad(dst []float64, x float64, p []float64, _ aux) {
	for k := 0; k < m.n; k++ {
		e := math.Exp(-p[2*k+1] * x)
		dst[2*k] = e
		dst[2*k+1] = -p[2*k] * x * e
	}
}

func (m expModel) Hess(dst []float64, x float64, p []float64, _ aux) {
	np := m.Nparam()
	clear(dst[:np*np])
	for k := 0; k < m.n; k++ {
		a, b := 2*k, 2*k+1
		e := math.Exp(-p[b] * x)
		dst[a*np+b] = -x * e
		dst[b*np+a] = -x * e
		dst[b*np+b] = p[a] * x * x * e
	}
}

type expConstModel struct{}

func (expConstModel) Type() ModelType { return ModelTypeExpConst }
func (expConstModel) Nparam() int     { return 3 }
func (expConstModel) sealed()         {}

func (expConstModel) Eval(x float64, p []float64, _ aux) float64 {
	return p[0]*math.Exp(-p[1]*x) + p[2]
}

func (expConstModel) Grad(dst []float64, x float64, p []float64, _ aux) {
	e := math.Exp(-p[1] * x)
	dst[0] = e
	dst[1] = -p[0] * x * e
	dst[2] = 1
}

type coshModel struct{ n int }

func (m coshModel) Type() ModelType { return ModelTypeCosh }
func (m coshModel) Nparam() int     { return 2 * m.n }
func (coshModel) sealed()           {}

func (m coshModel) Eval(x float64, p []float64, a aux) float64 {
	sum := 0.0
	for k := 0; k < m.n; k++ {
		sum += p[2*k] * (math.Exp(-p[2*k+1]*x) + math.Exp(-p[2*k+1]*(a.LT-x)))
	}

	return sum
}

func (m coshModel) Grad(dst []float64, x float64, p []float64, a aux) {
	for k := 0; k < m.n; k++ {
		fwd := math.Exp(-p[2*k+1] * x)
		bwd := math.Exp(-p[2*k+1] * (a.LT - x))
		dst[2*k] = fwd + bwd
		dst[2*k+1] = -p[2*k] * (x*fwd + (a.LT-x)*bwd)
	}
}

type polyModel struct{ degree int }

func (m polyModel) Type() ModelType { return ModelTypePoly }
func (m polyModel) Nparam() int     { return m.degree + 1 }
func (polyModel) sealed()           {}

func (m polyModel) Eval(x float64, p []float64, a aux) float64 {
	t := x - a.Ref
	sum := 0.0
	for k := m.degree; k >= 0; k-- {
		sum = sum*t + p[k]
	}

	return sum
}

func (m polyModel) Grad(dst []float64, x float64, _ []float64, a aux) {
	m.Basis(dst, x, a)
}

func (m polyModel) Basis(dst []float64, x float64, a aux) {
	t := x - a.Ref
	v := 1.0
	for k := 0; k <= m.degree; k++ {
		dst[k] = v
		v *= t
	}
}

type poleModel struct{}

func (poleModel) Type() ModelType { return ModelTypePole }
func (poleModel) Nparam() int     { return 2 }
func (poleModel) sealed()         {}

func (poleModel) Eval(x float64, p []float64, _ aux) float64 {
	return p[0] / (p[1] - x)
}

func (poleModel) Grad(dst []float64, x float64, p []float64, _ aux) {
	d := p[1] - x
	dst[0] = 1 / d
	dst[1] = -p[0] / (d * d)
}

type ratioModel struct{}

func (ratioModel) Type() ModelType { return ModelTypeRatio }
func (ratioModel) Nparam() int     { return 3 }
func (ratioModel) sealed()         {}

func (ratioModel) Eval(x float64, p []float64, _ aux) float64 {
	return p[0] * (1 + p[1]*math.Exp(-p[2]*x))
}

func (ratioModel) Grad(dst []float64, x float64, p []float64, _ aux) {
	e := math.Exp(-p[2] * x)
	dst[0] = 1 + p[1]*e
	dst[1] = p[0] * e
	dst[2] = -p[0] * p[1] * x * e
}

// NewModel returns the model for a tag. n is the number of exponentials for
// exp and cosh and the degree for poly; other models ignore it.
func NewModel(mt ModelType, n int) (Model, error) {
	switch mt {
	case ModelTypeExp, ModelTypeCosh:
		if n < 1 {
			return nil, fmt.Errorf("%w: %s needs at least one exponential, got %d", errs.ErrUnknownModel, mt, n)
		}
		if mt == ModelTypeExp {
			return expModel{n: n}, nil
		}

		return coshModel{n: n}, nil
	case ModelTypePoly:
		if n < 0 {
			return nil, fmt.Errorf("%w: negative polynomial degree %d", errs.ErrUnknownModel, n)
		}

		return polyModel{degree: n}, nil
	case ModelTypeExpConst:
		return expConstModel{}, nil
	case ModelTypePole:
		return poleModel{}, nil
	case ModelTypeRatio:
		return ratioModel{}, nil
	default:
		return nil, fmt.Errorf("%w: tag %d", errs.ErrUnknownModel, int(mt))
	}
}
