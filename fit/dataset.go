package fit

import (
	"fmt"

	"github.com/rjhudspith/urfit/errs"
	"github.com/rjhudspith/urfit/resample"
)

// Dataset holds Nsim simultaneous sub-experiments. X[i] and Y[i] are the
// abscissae and ordinates of sub-experiment i.
type Dataset struct {
	X  [][]*resample.Distribution
	Y  [][]*resample.Distribution
	LT float64
}

func (d *Dataset) Nsim() int { return len(d.Y) }

// Ndata returns the number of points of each sub-experiment.
func (d *Dataset) Ndata() []int {
	out := make([]int, len(d.Y))
	for i, y := range d.Y {
		out[i] = len(y)
	}

	return out
}

// Ntot returns the total number of points.
func (d *Dataset) Ntot() int {
	n := 0
	for _, y := range d.Y {
		n += len(y)
	}

	return n
}

// Validate checks the shape of the dataset and that every distribution
// shares the sample count and scheme of the first ordinate.
func (d *Dataset) Validate() error {
	if len(d.Y) == 0 || d.Ntot() == 0 {
		return errs.ErrEmptyDataset
	}
	if len(d.X) != len(d.Y) {
		return fmt.Errorf("%w: %d abscissa sets for %d ordinate sets", errs.ErrInvalidDimensions, len(d.X), len(d.Y))
	}

	ref := d.firstY()
	for i := range d.Y {
		if len(d.X[i]) != len(d.Y[i]) {
			return fmt.Errorf("%w: sub-experiment %d has %d abscissae and %d ordinates",
				errs.ErrInvalidDimensions, i, len(d.X[i]), len(d.Y[i]))
		}
		for j := range d.Y[i] {
			if err := resample.Compatible(ref, d.X[i][j]); err != nil {
				return fmt.Errorf("x[%d][%d]: %w", i, j, err)
			}
			if err := resample.Compatible(ref, d.Y[i][j]); err != nil {
				return fmt.Errorf("y[%d][%d]: %w", i, j, err)
			}
		}
	}

	return nil
}

func (d *Dataset) firstY() *resample.Distribution {
	for _, y := range d.Y {
		if len(y) > 0 {
			return y[0]
		}
	}

	return nil
}

// Nsamples returns the common sample count.
func (d *Dataset) Nsamples() int {
	if ref := d.firstY(); ref != nil {
		return ref.Len()
	}

	return 0
}

// Ordinates returns the ordinates of all sub-experiments in aggregate order.
func (d *Dataset) Ordinates() []*resample.Distribution {
	out := make([]*resample.Distribution, 0, d.Ntot())
	for _, y := range d.Y {
		out = append(out, y...)
	}

	return out
}

// values flattens the dataset for sample k, or for the averages when k < 0.
func (d *Dataset) values(k int) (xs, ys []float64) {
	xs = make([]float64, 0, d.Ntot())
	ys = make([]float64, 0, d.Ntot())
	pick := func(r *resample.Distribution) float64 {
		if k < 0 {
			return r.Average
		}

		return r.Samples[k]
	}
	for i := range d.Y {
		for j := range d.Y[i] {
			xs = append(xs, pick(d.X[i][j]))
			ys = append(ys, pick(d.Y[i][j]))
		}
	}

	return xs, ys
}

// subset returns the averaged abscissae and ordinates of sub-experiment sim.
func (d *Dataset) subset(sim int) (xs, ys []float64) {
	xs = resample.Averages(d.X[sim])
	ys = resample.Averages(d.Y[sim])

	return xs, ys
}
