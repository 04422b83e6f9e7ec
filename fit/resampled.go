package fit

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/rjhudspith/urfit/covariance"
	"github.com/rjhudspith/urfit/format"
	"github.com/rjhudspith/urfit/resample"
)

// Result represents the outcome of a resampled fit.
//
// Fields:
//   - Params: one distribution per logical parameter
//   - ChiSq: the chi-square of the average fit and of every sample fit
//   - Dof: degrees of freedom, Ntot − Nlogic plus the number of priors with a width
//   - Iterations: iterations of the average fit
type Result struct {
	Params     []*resample.Distribution
	ChiSq      *resample.Distribution
	Dof        int
	Iterations int
}

// ReducedChiSq returns the average chi-square per degree of freedom, or 0
// when there are none.
func (r *Result) ReducedChiSq() float64 {
	if r.Dof <= 0 {
		return 0
	}

	return r.ChiSq.Average / float64(r.Dof)
}

// Weights builds the inverse covariance of the ordinates of data.
func Weights(data *Dataset, w format.Weighting) (*mat.SymDense, error) {
	cov, err := covariance.Build(data.Ordinates(), w)
	if err != nil {
		return nil, fmt.Errorf("build covariance: %w", err)
	}

	return covariance.Inverse(cov)
}

// FitResampled fits the averages of data and then every sample, starting
// each sample from the average solution. Sample fits run in parallel.
//
// Parameters:
//   - ctx: cancels the pending sample fits
//   - desc: fit descriptor from Dispatch
//   - data: the resampled dataset
//   - winv: inverse covariance, Ntot×Ntot, or nil for equal weights
//   - opts: minimiser options
//
// Returns:
//   - *Result: the parameter distributions
//   - error: the first failing fit, wrapped with its sample index
func FitResampled(ctx context.Context, desc *Descriptor, data *Dataset, winv mat.Symmetric, opts ...MinimizeOption) (*Result, error) {
	cfg, err := newMinimizeConfig(opts...)
	if err != nil {
		return nil, err
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	if err := desc.checkShapes(data, winv, nil); err != nil {
		return nil, err
	}

	logger := desc.ctx.logger().WithFields(logrus.Fields{
		"model":  desc.Type.String(),
		"nlogic": desc.Nlogic,
		"ntot":   data.Ntot(),
	})

	init, err := desc.Guess(data)
	if err != nil {
		return nil, fmt.Errorf("guess: %w", err)
	}

	xs, ys := data.values(-1)
	avg, err := desc.minimize(xs, ys, winv, init, cfg)
	if err != nil {
		return nil, fmt.Errorf("average fit: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"chisq":      avg.ChiSq,
		"iterations": avg.Iterations,
	}).Debug("average fit converged")

	nsamples := data.Nsamples()
	params := make([][]float64, desc.Nlogic)
	for i := range params {
		params[i] = make([]float64, nsamples)
	}
	chisq := make([]float64, nsamples)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for k := range nsamples {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			xs, ys := data.values(k)
			sol, err := desc.minimize(xs, ys, winv, avg.Params, cfg)
			if err != nil {
				return fmt.Errorf("sample %d: %w", k, err)
			}
			for i, v := range sol.Params {
				params[i][k] = v
			}
			chisq[k] = sol.ChiSq

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	scheme := data.firstY().Scheme
	res := &Result{
		Params:     make([]*resample.Distribution, desc.Nlogic),
		ChiSq:      resample.FromSamples(chisq, avg.ChiSq, scheme),
		Dof:        data.Ntot() - desc.Nlogic + desc.constrained(),
		Iterations: avg.Iterations,
	}
	for i := range res.Params {
		res.Params[i] = resample.FromSamples(params[i], avg.Params[i], scheme)
	}
	logger.WithField("dof", res.Dof).Debug("resampled fit done")

	return res, nil
}

// constrained counts the priors that add a penalty.
func (d *Descriptor) constrained() int {
	n := 0
	for _, p := range d.ctx.Priors {
		if p.Width > 0 {
			n++
		}
	}

	return n
}
