package resample

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rjhudspith/urfit/errs"
	"github.com/rjhudspith/urfit/format"
)

func randomDistribution(rng *rand.Rand, n int, scheme format.Scheme) *Distribution {
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = rng.NormFloat64()*0.3 + 1.7
	}

	return FromSamples(samples, 1.7, scheme)
}

func withinULP(t *testing.T, want, got float64) {
	t.Helper()
	if want == got {
		return
	}
	require.LessOrEqual(t, math.Abs(want-got), math.Abs(math.Nextafter(want, math.Inf(1))-want)*2, "want %v got %v", want, got)
}

func TestConstantRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	for _, c := range []float64{0, 1, -3.25, 1e-3} {
		a := randomDistribution(rng, 64, format.SchemeJackknife)
		orig := a.Clone()

		a.AddConstant(c)
		a.SubConstant(c)

		for i := range orig.Samples {
			withinULP(t, orig.Samples[i], a.Samples[i])
		}
		withinULP(t, orig.Average, a.Average)
	}
}

func TestAddSubRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 13))
	a := randomDistribution(rng, 100, format.SchemeBootstrap)
	b := randomDistribution(rng, 100, format.SchemeBootstrap)
	orig := a.Clone()

	require.NoError(t, a.Add(b))
	require.NoError(t, a.Sub(b))

	for i := range orig.Samples {
		require.InDelta(t, orig.Samples[i], a.Samples[i], 1e-14)
	}
	require.InDelta(t, orig.Average, a.Average, 1e-14)
	require.InDelta(t, orig.Err, a.Err, 1e-12)
}

func TestBinaryMismatch(t *testing.T) {
	ops := map[string]func(*Distribution, *Distribution) error{
		"add": (*Distribution).Add,
		"sub": (*Distribution).Sub,
		"mul": (*Distribution).Mul,
		"div": (*Distribution).Div,
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			a := NewConstant(4, format.SchemeJackknife, 2)
			b := NewConstant(5, format.SchemeJackknife, 3)

			err := op(a, b)
			require.ErrorIs(t, err, errs.ErrDistributionMismatch)
			require.Equal(t, []float64{2, 2, 2, 2}, a.Samples)
			require.Equal(t, 2.0, a.Average)
		})
	}

	_, err := Sum(NewConstant(4, format.SchemeRaw, 1), NewConstant(4, format.SchemeJackknife, 1))
	require.ErrorIs(t, err, errs.ErrDistributionMismatch)
}

func TestMulDiv(t *testing.T) {
	a := FromSamples([]float64{1, 2, 3}, 2, format.SchemeJackknife)
	b := FromSamples([]float64{2, 4, 6}, 4, format.SchemeJackknife)

	p, err := Product(a, b)
	require.NoError(t, err)
	require.Equal(t, []float64{2, 8, 18}, p.Samples)
	require.Equal(t, 8.0, p.Average)

	q, err := Quotient(b, a)
	require.NoError(t, err)
	require.Equal(t, []float64{2, 2, 2}, q.Samples)
	require.Zero(t, q.Err)

	d, err := Difference(b, a)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 3}, d.Samples)

	// operands are untouched by the functional forms
	require.Equal(t, []float64{1, 2, 3}, a.Samples)
}

func TestConstantOps(t *testing.T) {
	a := FromSamples([]float64{1, 2, 3}, 2, format.SchemeRaw)
	a.MulConstant(3)
	require.Equal(t, []float64{3, 6, 9}, a.Samples)
	require.Equal(t, 6.0, a.Average)
	a.DivConstant(3)
	require.Equal(t, []float64{1, 2, 3}, a.Samples)
	require.InDelta(t, math.Sqrt(2.0/6.0), a.Err, 1e-15)
}

func TestUnaryTransforms(t *testing.T) {
	tests := []struct {
		name string
		op   func(*Distribution)
		fn   func(float64) float64
		in   float64
	}{
		{name: "log", op: (*Distribution).Log, fn: math.Log, in: 2},
		{name: "exp", op: (*Distribution).Exp, fn: math.Exp, in: 0.5},
		{name: "sqrt", op: (*Distribution).Sqrt, fn: math.Sqrt, in: 4},
		{name: "acosh", op: (*Distribution).Acosh, fn: math.Acosh, in: 1.5},
		{name: "asinh", op: (*Distribution).Asinh, fn: math.Asinh, in: 0.3},
		{name: "atanh", op: (*Distribution).Atanh, fn: math.Atanh, in: 0.3},
		{name: "pow", op: func(d *Distribution) { d.Pow(3) }, fn: func(v float64) float64 { return v * v * v }, in: 1.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := FromSamples([]float64{tt.in, tt.in * 1.01}, tt.in, format.SchemeJackknife)
			tt.op(d)
			require.InDelta(t, tt.fn(tt.in), d.Average, 1e-14)
			require.InDelta(t, tt.fn(tt.in*1.01), d.Samples[1], 1e-14)
			require.Greater(t, d.Err, 0.0)
		})
	}
}

func TestDomainPolicies(t *testing.T) {
	t.Run("abort keeps the input", func(t *testing.T) {
		d := FromSamples([]float64{0.5, -0.1}, 0.2, format.SchemeJackknife)
		err := d.LogChecked(DomainAbort)
		require.ErrorIs(t, err, errs.ErrDomainViolation)
		require.Equal(t, []float64{0.5, -0.1}, d.Samples)
	})

	t.Run("zero substitutes", func(t *testing.T) {
		d := FromSamples([]float64{0.5, 0.9}, 0.7, format.SchemeJackknife)
		require.NoError(t, d.AcoshChecked(DomainZero))
		require.Equal(t, []float64{0, 0}, d.Samples)
		require.Zero(t, d.Average)
		require.Zero(t, d.Err)
		require.Equal(t, 2, d.Len())
	})

	t.Run("in domain applies", func(t *testing.T) {
		d := FromSamples([]float64{0.1, 0.2}, 0.15, format.SchemeBootstrap)
		require.NoError(t, d.AtanhChecked(DomainAbort))
		require.InDelta(t, math.Atanh(0.15), d.Average, 1e-15)
	})

	t.Run("atanh boundary", func(t *testing.T) {
		d := FromSamples([]float64{1}, 1, format.SchemeRaw)
		require.ErrorIs(t, d.AtanhChecked(DomainAbort), errs.ErrDomainViolation)
	})
}

func TestParseDomainPolicy(t *testing.T) {
	for name, want := range map[string]DomainPolicy{"": DomainAbort, "abort": DomainAbort, "zero": DomainZero} {
		got, ok := ParseDomainPolicy(name)
		require.True(t, ok, name)
		require.Equal(t, want, got)
		if name != "" {
			require.Equal(t, name, got.String())
		}
	}

	_, ok := ParseDomainPolicy("clip")
	require.False(t, ok)
}

func BenchmarkAdd(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 1))
	x := randomDistribution(rng, 1000, format.SchemeBootstrap)
	y := randomDistribution(rng, 1000, format.SchemeBootstrap)

	for b.Loop() {
		_ = x.Add(y)
	}
}
