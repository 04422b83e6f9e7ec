package resample

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/rjhudspith/urfit/errs"
	"github.com/rjhudspith/urfit/format"
	"github.com/rjhudspith/urfit/internal/pool"
)

// Quantiles of a unit normal at minus and plus one standard deviation.
const (
	lowerQuantile = 0.15865525393145707
	upperQuantile = 0.8413447460685429
)

// Distribution is an ensemble of resampled values with its derived statistics.
//
// Err, ErrHi and ErrLo are derived from Samples, Average and Scheme by
// ComputeErr. Code mutating Samples or Average directly must call
// ComputeErr afterwards.
type Distribution struct {
	Samples []float64
	Average float64
	// Err is the symmetric error.
	Err float64
	// ErrHi and ErrLo are the upper and lower one-sigma bounds. They equal
	// Average±Err except for bootstrap ensembles, where they are the
	// empirical 84.1% and 15.9% quantiles.
	ErrHi  float64
	ErrLo  float64
	Scheme format.Scheme
}

// New returns a zero distribution of n samples.
func New(n int, scheme format.Scheme) *Distribution {
	return &Distribution{
		Samples: make([]float64, n),
		Scheme:  scheme,
	}
}

// NewConstant returns a distribution whose samples and average all equal c.
func NewConstant(n int, scheme format.Scheme, c float64) *Distribution {
	d := New(n, scheme)
	for i := range d.Samples {
		d.Samples[i] = c
	}
	d.Average = c
	d.ComputeErr()

	return d
}

// FromSamples returns a distribution holding a copy of samples.
func FromSamples(samples []float64, average float64, scheme format.Scheme) *Distribution {
	d := &Distribution{
		Samples: slices.Clone(samples),
		Average: average,
		Scheme:  scheme,
	}
	if d.Samples == nil {
		d.Samples = []float64{}
	}
	d.ComputeErr()

	return d
}

// Clone returns a deep copy of d.
func (d *Distribution) Clone() *Distribution {
	c := *d
	c.Samples = slices.Clone(d.Samples)

	return &c
}

// Len returns the number of samples.
func (d *Distribution) Len() int {
	return len(d.Samples)
}

// Zero sets every sample and the average to zero.
func (d *Distribution) Zero() {
	clear(d.Samples)
	d.Average = 0
	d.ComputeErr()
}

// Mean returns the arithmetic mean of the samples, or 0 for an empty ensemble.
func (d *Distribution) Mean() float64 {
	if len(d.Samples) == 0 {
		return 0
	}

	return stat.Mean(d.Samples, nil)
}

// Norm returns the factor converting Σ(x−x̄)² into a variance for n samples
// drawn with the given scheme. It returns 0 when the variance is undefined.
func Norm(scheme format.Scheme, n int) float64 {
	if n == 0 {
		return 0
	}

	nf := float64(n)
	switch scheme {
	case format.SchemeJackknife:
		return (nf - 1) / nf
	case format.SchemeBootstrap:
		return 1 / nf
	default:
		if n < 2 {
			return 0
		}

		return 1 / (nf * (nf - 1))
	}
}

// ComputeErr recomputes Err, ErrHi and ErrLo from the samples.
func (d *Distribution) ComputeErr() {
	n := len(d.Samples)
	if n == 0 {
		d.Err, d.ErrHi, d.ErrLo = 0, d.Average, d.Average
		return
	}

	mean := stat.Mean(d.Samples, nil)
	sum := 0.0
	for _, v := range d.Samples {
		diff := v - mean
		sum += diff * diff
	}
	d.Err = math.Sqrt(sum * Norm(d.Scheme, n))

	if d.Scheme != format.SchemeBootstrap {
		d.ErrHi = d.Average + d.Err
		d.ErrLo = d.Average - d.Err

		return
	}

	sorted, cleanup := pool.GetFloat64Slice(n)
	defer cleanup()
	copy(sorted, d.Samples)
	slices.Sort(sorted)
	d.ErrLo = stat.Quantile(lowerQuantile, stat.Empirical, sorted, nil)
	d.ErrHi = stat.Quantile(upperQuantile, stat.Empirical, sorted, nil)
}

// Compatible reports whether a and b can be combined sample by sample.
func Compatible(a, b *Distribution) error {
	if len(a.Samples) != len(b.Samples) || a.Scheme != b.Scheme {
		return fmt.Errorf("%w: %d %s samples vs %d %s samples",
			errs.ErrDistributionMismatch, len(a.Samples), a.Scheme, len(b.Samples), b.Scheme)
	}

	return nil
}

// CompatibleAll checks that every distribution in ds is compatible with the first.
func CompatibleAll(ds []*Distribution) error {
	for i := 1; i < len(ds); i++ {
		if err := Compatible(ds[0], ds[i]); err != nil {
			return fmt.Errorf("index %d: %w", i, err)
		}
	}

	return nil
}

// Averages returns the averages of ds.
func Averages(ds []*Distribution) []float64 {
	out := make([]float64, len(ds))
	for i, d := range ds {
		out[i] = d.Average
	}

	return out
}

func (d *Distribution) String() string {
	return fmt.Sprintf("%g ± %g [%g, %g] (%s, n=%d)", d.Average, d.Err, d.ErrLo, d.ErrHi, d.Scheme, len(d.Samples))
}
