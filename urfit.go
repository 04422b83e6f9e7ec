// Package urfit fits resampled lattice correlation functions.
//
// The toolkit turns jackknife or bootstrap ensembles of correlator time
// slices into fitted parameters with propagated uncertainties, using
// correlated or uncorrelated chi-square minimisation over one or more
// simultaneous datasets.
//
// # Basic Usage
//
// Writing a correlator to a distribution file:
//
//	import "github.com/rjhudspith/urfit"
//
//	corr := make([]*resample.Distribution, nt)
//	for t := range corr {
//	    corr[t], _ = resample.Jackknife(measurements[t])
//	}
//	err := urfit.WriteCorrelator("pion.urf", corr, blob.WithCompression(format.CompressionZstd))
//
// Fitting the ground state of two correlators with a shared mass:
//
//	res, err := urfit.FitFiles(ctx, []string{"pion_ll.urf", "pion_sl.urf"}, urfit.FitConfig{
//	    Model:     fit.ModelTypeExp,
//	    N:         1,
//	    Shared:    []bool{false, true}, // amplitude per file, one mass
//	    Weighting: format.WeightingCorrelated,
//	    Window:    urfit.Window{Tmin: 4, Tmax: 12},
//	})
//	mass := res.Params[1]
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the blob, fit
// and effmass packages for the most common flows. For fine-grained control,
// use those packages directly.
package urfit

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/rjhudspith/urfit/blob"
	"github.com/rjhudspith/urfit/effmass"
	"github.com/rjhudspith/urfit/errs"
	"github.com/rjhudspith/urfit/fit"
	"github.com/rjhudspith/urfit/format"
	"github.com/rjhudspith/urfit/resample"
)

// Window selects the time slices Tmin through Tmax, both included.
// A negative Tmax selects the last slice.
type Window struct {
	Tmin int
	Tmax int
}

// bounds resolves the window against a correlator of nt slices.
func (w Window) bounds(nt int) (int, int, error) {
	tmax := w.Tmax
	if tmax < 0 {
		tmax = nt - 1
	}
	if w.Tmin < 0 || w.Tmin > tmax || tmax >= nt {
		return 0, 0, fmt.Errorf("%w: window [%d, %d] on %d time slices", errs.ErrInvalidDimensions, w.Tmin, w.Tmax, nt)
	}

	return w.Tmin, tmax, nil
}

// FitConfig describes a correlator fit.
type FitConfig struct {
	Model fit.ModelType
	// N is the number of states, or the degree of a polynomial.
	N int
	// Shared marks the model parameters shared by all correlators.
	Shared    []bool
	Weighting format.Weighting
	Window    Window
	// LT is the time extent of periodic models. Zero uses the length of the
	// first correlator.
	LT float64
	// Context carries priors, guess settings and the logger. Nil uses
	// fit.NewContext(0).
	Context  *fit.Context
	Minimize []fit.MinimizeOption
}

// ReadCorrelator reads a correlator from a distribution file.
func ReadCorrelator(path string) ([]*resample.Distribution, error) {
	return blob.ReadFile(path)
}

// WriteCorrelator writes a correlator to a distribution file.
func WriteCorrelator(path string, corr []*resample.Distribution, opts ...blob.EncoderOption) error {
	return blob.WriteFile(path, corr, opts...)
}

// CorrelatorDataset builds a fit dataset with one sub-experiment per
// correlator. The abscissae are the time slices of the window, as constant
// distributions matching the correlator ensembles.
//
// Returns:
//   - *fit.Dataset: the windowed dataset
//   - error: errs.ErrEmptyDataset without correlators, errs.ErrInvalidDimensions
//     for a window outside a correlator
func CorrelatorDataset(corrs [][]*resample.Distribution, w Window, lt float64) (*fit.Dataset, error) {
	if len(corrs) == 0 {
		return nil, errs.ErrEmptyDataset
	}
	if lt == 0 {
		lt = float64(len(corrs[0]))
	}

	data := &fit.Dataset{
		X:  make([][]*resample.Distribution, len(corrs)),
		Y:  make([][]*resample.Distribution, len(corrs)),
		LT: lt,
	}
	for i, corr := range corrs {
		tmin, tmax, err := w.bounds(len(corr))
		if err != nil {
			return nil, fmt.Errorf("correlator %d: %w", i, err)
		}

		for t := tmin; t <= tmax; t++ {
			y := corr[t]
			data.X[i] = append(data.X[i], resample.NewConstant(y.Len(), y.Scheme, float64(t)))
			data.Y[i] = append(data.Y[i], y)
		}
	}

	return data, data.Validate()
}

// Fit fits the windowed correlators simultaneously and propagates the
// sample-wise fits into parameter distributions.
func Fit(ctx context.Context, corrs [][]*resample.Distribution, cfg FitConfig) (*fit.Result, error) {
	data, err := CorrelatorDataset(corrs, cfg.Window, cfg.LT)
	if err != nil {
		return nil, err
	}

	desc, err := fit.Dispatch(cfg.Context, cfg.Model, fit.ModelConfig{N: cfg.N, Shared: cfg.Shared}, data)
	if err != nil {
		return nil, err
	}

	var winv mat.Symmetric
	if cfg.Weighting != format.WeightingUnweighted {
		w, err := fit.Weights(data, cfg.Weighting)
		if err != nil {
			return nil, err
		}
		winv = w
	}

	return fit.FitResampled(ctx, desc, data, winv, cfg.Minimize...)
}

// FitFiles reads one correlator per file, in parallel, and fits them with
// FitSet. A path given twice is rejected rather than fitted twice.
func FitFiles(ctx context.Context, paths []string, cfg FitConfig) (*fit.Result, error) {
	set, err := blob.ReadSet(ctx, paths)
	if err != nil {
		return nil, err
	}

	return FitSet(ctx, set, cfg)
}

// FitSet fits the correlators of set, in set order, with Fit.
func FitSet(ctx context.Context, set *blob.Set, cfg FitConfig) (*fit.Result, error) {
	return Fit(ctx, correlators(set), cfg)
}

// EffectiveMasses reads one correlator per file and computes their effective masses.
func EffectiveMasses(ctx context.Context, paths []string, form effmass.Form, policy resample.DomainPolicy) ([][]*resample.Distribution, error) {
	set, err := blob.ReadSet(ctx, paths)
	if err != nil {
		return nil, err
	}

	return effmass.ComputeAll(ctx, correlators(set), form, policy)
}

func correlators(set *blob.Set) [][]*resample.Distribution {
	out := make([][]*resample.Distribution, 0, set.Len())
	for _, corr := range set.All() {
		out = append(out, corr)
	}

	return out
}
