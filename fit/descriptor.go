package fit

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/rjhudspith/urfit/errs"
	"github.com/rjhudspith/urfit/pmap"
)

// ModelConfig selects the variant of a model and its parameter sharing.
type ModelConfig struct {
	// N is the number of exponentials of exp and cosh and the degree of poly.
	N int
	// Shared marks the parameter positions common to all sub-experiments.
	// A nil Shared keeps every position independent.
	Shared []bool
}

// Descriptor bundles the functions of one fit. It is built once by Dispatch
// and never modified.
type Descriptor struct {
	Type   ModelType
	Model  Model
	Map    *pmap.Map
	Nparam int
	Nlogic int

	// Eval returns the model at x for aggregate datapoint point.
	Eval func(point int, x float64, global []float64) float64
	// Residuals returns model(x)−y for every datapoint, using averages.
	Residuals func(data *Dataset, global []float64) []float64
	// Jacobian returns the Ntot×Nlogic matrix ∂residual/∂parameter.
	Jacobian func(data *Dataset, global []float64) *mat.Dense
	// Hessian returns ∂²residual/∂pᵢ∂pⱼ of one datapoint over the logical
	// parameters. It is zero for models without an analytic curvature.
	Hessian func(data *Dataset, global []float64, point int) *mat.SymDense
	// Guess returns a starting point with priors applied.
	Guess func(data *Dataset) ([]float64, error)
	// Linearize returns the Ntot×Nlogic design matrix of a model linear in
	// its parameters. It is nil for non-linear models.
	Linearize func(data *Dataset) *mat.Dense

	ctx *Context
	aux aux
}

// Dispatch resolves the model tag and builds the descriptor for data.
//
// Parameters:
//   - ctx: fit context; a nil ctx uses NewContext(0)
//   - mt: model tag
//   - cfg: model variant and parameter sharing
//   - data: the dataset the descriptor will be evaluated on
//
// Returns:
//   - *Descriptor: the resolved fit functions
//   - error: errs.ErrUnknownModel, errs.ErrInvalidParameterMap or a dataset error
func Dispatch(ctx *Context, mt ModelType, cfg ModelConfig, data *Dataset) (*Descriptor, error) {
	if ctx == nil {
		ctx = NewContext(0)
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}

	model, err := NewModel(mt, cfg.N)
	if err != nil {
		return nil, err
	}

	pm, err := pmap.Build(model.Nparam(), data.Ndata(), cfg.Shared)
	if err != nil {
		return nil, err
	}
	for _, p := range ctx.Priors {
		if p.Index < 0 || p.Index >= pm.Nlogic {
			return nil, fmt.Errorf("%w: prior on parameter %d of %d", errs.ErrInvalidParameterMap, p.Index, pm.Nlogic)
		}
		if p.Width < 0 {
			return nil, fmt.Errorf("%w: prior width %g on parameter %d", errs.ErrInvalidDimensions, p.Width, p.Index)
		}
	}

	d := &Descriptor{
		Type:   mt,
		Model:  model,
		Map:    pm,
		Nparam: model.Nparam(),
		Nlogic: pm.Nlogic,
		ctx:    ctx,
		aux:    aux{LT: data.LT, Ref: ctx.ReferenceMomentum},
	}

	d.Eval = func(point int, x float64, global []float64) float64 {
		p := make([]float64, d.Nparam)
		pm.Params(p, point, global)

		return model.Eval(x, p, d.aux)
	}
	d.Residuals = func(data *Dataset, global []float64) []float64 {
		xs, ys := data.values(-1)
		r := make([]float64, len(xs))
		d.residuals(r, xs, ys, global)

		return r
	}
	d.Jacobian = func(data *Dataset, global []float64) *mat.Dense {
		xs, _ := data.values(-1)
		j := mat.NewDense(len(xs), d.Nlogic, nil)
		d.jacobian(j, xs, global)

		return j
	}
	d.Hessian = d.hessianFunc(model)
	d.Guess = d.guessFunc(model)
	if lin, ok := model.(linear); ok {
		d.Linearize = func(data *Dataset) *mat.Dense {
			xs, _ := data.values(-1)

			return d.design(lin, xs)
		}
	}

	return d, nil
}

func (d *Descriptor) residuals(dst, xs, ys, global []float64) {
	p := make([]float64, d.Nparam)
	for i, x := range xs {
		d.Map.Params(p, i, global)
		dst[i] = d.Model.Eval(x, p, d.aux) - ys[i]
	}
}

func (d *Descriptor) jacobian(dst *mat.Dense, xs, global []float64) {
	dst.Zero()
	p := make([]float64, d.Nparam)
	g := make([]float64, d.Nparam)
	for i, x := range xs {
		d.Map.Params(p, i, global)
		d.Model.Grad(g, x, p, d.aux)
		for k, idx := range d.Map.Entries[i] {
			// shared positions of one datapoint can alias the same index
			dst.Set(i, idx, dst.At(i, idx)+g[k])
		}
	}
}

func (d *Descriptor) design(lin linear, xs []float64) *mat.Dense {
	a := mat.NewDense(len(xs), d.Nlogic, nil)
	b := make([]float64, d.Nparam)
	for i, x := range xs {
		lin.Basis(b, x, d.aux)
		for k, idx := range d.Map.Entries[i] {
			a.Set(i, idx, a.At(i, idx)+b[k])
		}
	}

	return a
}

func (d *Descriptor) hessianFunc(model Model) func(*Dataset, []float64, int) *mat.SymDense {
	curv, ok := model.(curvature)

	return func(data *Dataset, global []float64, point int) *mat.SymDense {
		h := mat.NewSymDense(d.Nlogic, nil)
		if !ok {
			return h
		}

		xs, _ := data.values(-1)
		p := make([]float64, d.Nparam)
		local := make([]float64, d.Nparam*d.Nparam)
		d.Map.Params(p, point, global)
		curv.Hess(local, xs[point], p, d.aux)

		entry := d.Map.Entries[point]
		for a := 0; a < d.Nparam; a++ {
			for b := a; b < d.Nparam; b++ {
				i, j := entry[a], entry[b]
				v := local[a*d.Nparam+b]
				if a != b && i == j {
					v *= 2
				}
				h.SetSym(i, j, h.At(i, j)+v)
			}
		}

		return h
	}
}
