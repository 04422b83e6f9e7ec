package resample

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Add sets d to d+b sample by sample.
func (d *Distribution) Add(b *Distribution) error {
	if err := Compatible(d, b); err != nil {
		return err
	}

	vecmath.AddBlockInPlace(d.Samples, b.Samples)
	d.Average += b.Average
	d.ComputeErr()

	return nil
}

// Sub sets d to d−b sample by sample.
func (d *Distribution) Sub(b *Distribution) error {
	if err := Compatible(d, b); err != nil {
		return err
	}

	for i, v := range b.Samples {
		d.Samples[i] -= v
	}
	d.Average -= b.Average
	d.ComputeErr()

	return nil
}

// Mul sets d to d·b sample by sample.
func (d *Distribution) Mul(b *Distribution) error {
	if err := Compatible(d, b); err != nil {
		return err
	}

	vecmath.MulBlockInPlace(d.Samples, b.Samples)
	d.Average *= b.Average
	d.ComputeErr()

	return nil
}

// Div sets d to d/b sample by sample. Division by a zero sample follows
// IEEE-754 and yields ±Inf or NaN.
func (d *Distribution) Div(b *Distribution) error {
	if err := Compatible(d, b); err != nil {
		return err
	}

	for i, v := range b.Samples {
		d.Samples[i] /= v
	}
	d.Average /= b.Average
	d.ComputeErr()

	return nil
}

func (d *Distribution) AddConstant(c float64) {
	for i := range d.Samples {
		d.Samples[i] += c
	}
	d.Average += c
	d.ComputeErr()
}

func (d *Distribution) SubConstant(c float64) {
	for i := range d.Samples {
		d.Samples[i] -= c
	}
	d.Average -= c
	d.ComputeErr()
}

func (d *Distribution) MulConstant(c float64) {
	vecmath.ScaleBlock(d.Samples, d.Samples, c)
	d.Average *= c
	d.ComputeErr()
}

func (d *Distribution) DivConstant(c float64) {
	for i := range d.Samples {
		d.Samples[i] /= c
	}
	d.Average /= c
	d.ComputeErr()
}

// Apply replaces every sample and the average by fn of itself.
func (d *Distribution) Apply(fn func(float64) float64) {
	for i, v := range d.Samples {
		d.Samples[i] = fn(v)
	}
	d.Average = fn(d.Average)
	d.ComputeErr()
}

func (d *Distribution) Pow(exponent float64) {
	d.Apply(func(v float64) float64 { return math.Pow(v, exponent) })
}

// Log applies the natural logarithm without checking the domain.
func (d *Distribution) Log() { d.Apply(math.Log) }

func (d *Distribution) Exp() { d.Apply(math.Exp) }

// Sqrt applies the square root without checking the domain.
func (d *Distribution) Sqrt() { d.Apply(math.Sqrt) }

// Acosh applies the inverse hyperbolic cosine without checking the domain.
func (d *Distribution) Acosh() { d.Apply(math.Acosh) }

func (d *Distribution) Asinh() { d.Apply(math.Asinh) }

// Atanh applies the inverse hyperbolic tangent without checking the domain.
func (d *Distribution) Atanh() { d.Apply(math.Atanh) }

// Sum returns a new distribution a+b.
func Sum(a, b *Distribution) (*Distribution, error) {
	return combine(a, b, (*Distribution).Add)
}

// Difference returns a new distribution a−b.
func Difference(a, b *Distribution) (*Distribution, error) {
	return combine(a, b, (*Distribution).Sub)
}

// Product returns a new distribution a·b.
func Product(a, b *Distribution) (*Distribution, error) {
	return combine(a, b, (*Distribution).Mul)
}

// Quotient returns a new distribution a/b.
func Quotient(a, b *Distribution) (*Distribution, error) {
	return combine(a, b, (*Distribution).Div)
}

func combine(a, b *Distribution, op func(*Distribution, *Distribution) error) (*Distribution, error) {
	if err := Compatible(a, b); err != nil {
		return nil, err
	}

	out := a.Clone()
	if err := op(out, b); err != nil {
		return nil, err
	}

	return out, nil
}
