package resample

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/rjhudspith/urfit/errs"
	"github.com/rjhudspith/urfit/format"
	"github.com/rjhudspith/urfit/internal/pool"
)

// Raw wraps independent measurements. The average is their mean.
func Raw(data []float64) *Distribution {
	d := FromSamples(data, 0, format.SchemeRaw)
	d.Average = d.Mean()
	d.ComputeErr()

	return d
}

// Jackknife builds the delete-one jackknife ensemble of data.
func Jackknife(data []float64) (*Distribution, error) {
	n := len(data)
	if n < 2 {
		return nil, fmt.Errorf("%w: jackknife needs at least 2 measurements, got %d", errs.ErrEmptyDataset, n)
	}

	sum := 0.0
	for _, v := range data {
		sum += v
	}

	d := New(n, format.SchemeJackknife)
	inv := 1 / float64(n-1)
	for i, v := range data {
		d.Samples[i] = (sum - v) * inv
	}
	d.Average = sum / float64(n)
	d.ComputeErr()

	return d, nil
}

// Bootstrap builds nboot bootstrap resamples of the mean of data, drawing
// with replacement from rng.
func Bootstrap(data []float64, nboot int, rng *rand.Rand) (*Distribution, error) {
	n := len(data)
	if n == 0 || nboot <= 0 {
		return nil, fmt.Errorf("%w: bootstrap of %d measurements into %d resamples", errs.ErrEmptyDataset, n, nboot)
	}

	idx, cleanup := pool.GetIntSlice(n)
	defer cleanup()

	d := New(nboot, format.SchemeBootstrap)
	for b := range d.Samples {
		for i := range idx {
			idx[i] = rng.IntN(n)
		}
		sum := 0.0
		for _, k := range idx {
			sum += data[k]
		}
		d.Samples[b] = sum / float64(n)
	}
	d.Average = stat.Mean(data, nil)
	d.ComputeErr()

	return d, nil
}

// Resample converts raw measurements into a distribution of the given scheme.
// nboot is only used for bootstrap.
func Resample(data []float64, scheme format.Scheme, nboot int, rng *rand.Rand) (*Distribution, error) {
	switch scheme {
	case format.SchemeRaw:
		return Raw(data), nil
	case format.SchemeJackknife:
		return Jackknife(data)
	case format.SchemeBootstrap:
		return Bootstrap(data, nboot, rng)
	default:
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidScheme, scheme)
	}
}

// Gaussian draws n measurements from a normal distribution with the given
// mean and width. It is used to build synthetic correlators.
func Gaussian(mean, sigma float64, n int, rng *rand.Rand) []float64 {
	normal := distuv.Normal{Mu: mean, Sigma: sigma, Src: rng}
	out := make([]float64, n)
	for i := range out {
		out[i] = normal.Rand()
	}

	return out
}
