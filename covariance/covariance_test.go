package covariance

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/rjhudspith/urfit/errs"
	"github.com/rjhudspith/urfit/format"
	"github.com/rjhudspith/urfit/resample"
)

// correlatedData returns n observables sharing a common fluctuation.
func correlatedData(rng *rand.Rand, n, nsamples int, scheme format.Scheme) []*resample.Distribution {
	common := make([]float64, nsamples)
	for k := range common {
		common[k] = rng.NormFloat64()
	}

	out := make([]*resample.Distribution, n)
	for i := range out {
		samples := make([]float64, nsamples)
		for k := range samples {
			samples[k] = float64(i+1) + 0.5*common[k] + 0.1*rng.NormFloat64()
		}
		out[i] = resample.FromSamples(samples, float64(i+1), scheme)
	}

	return out
}

func TestBuild_Correlated(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	data := correlatedData(rng, 6, 200, format.SchemeBootstrap)

	res, err := Build(data, format.WeightingCorrelated)
	require.NoError(t, err)
	require.Equal(t, 6, res.N)

	for i := 0; i < res.N; i++ {
		for j := 0; j < res.N; j++ {
			require.Equal(t, res.Cov.At(i, j), res.Cov.At(j, i))
		}
		// the diagonal reproduces the per-observable error
		require.InDelta(t, data[i].Err*data[i].Err, res.Cov.At(i, i), 1e-12)
	}

	mod := res.Modified()
	for i := 0; i < res.N; i++ {
		require.InDelta(t, 1, mod.At(i, i), 1e-12)
		for j := 0; j < res.N; j++ {
			require.LessOrEqual(t, math.Abs(mod.At(i, j)), 1+1e-12)
		}
	}
	require.Greater(t, mod.At(0, 1), 0.8)
}

func TestBuild_Uncorrelated(t *testing.T) {
	rng := rand.New(rand.NewPCG(8, 9))
	data := correlatedData(rng, 4, 50, format.SchemeJackknife)

	res, err := Build(data, format.WeightingUncorrelated)
	require.NoError(t, err)

	for i := 0; i < res.N; i++ {
		for j := 0; j < res.N; j++ {
			if i != j {
				require.Zero(t, res.Cov.At(i, j))
			}
		}
	}

	inv, err := Inverse(res)
	require.NoError(t, err)
	for i := 0; i < res.N; i++ {
		require.InDelta(t, 1, res.Cov.At(i, i)*inv.At(i, i), 1e-15)
	}
}

func TestBuild_Unweighted(t *testing.T) {
	data := []*resample.Distribution{
		resample.NewConstant(3, format.SchemeRaw, 1),
		resample.NewConstant(3, format.SchemeRaw, 2),
	}
	res, err := Build(data, format.WeightingUnweighted)
	require.NoError(t, err)
	require.Nil(t, res.Cov)
	require.Nil(t, res.Modified())

	inv, err := Inverse(res)
	require.NoError(t, err)
	require.True(t, mat.Equal(inv, mat.NewDiagDense(2, []float64{1, 1})))
}

func TestBuild_Mismatch(t *testing.T) {
	data := []*resample.Distribution{
		resample.NewConstant(3, format.SchemeJackknife, 1),
		resample.NewConstant(4, format.SchemeJackknife, 1),
	}
	_, err := Build(data, format.WeightingCorrelated)
	require.ErrorIs(t, err, errs.ErrDistributionMismatch)

	_, err = Build(nil, format.WeightingCorrelated)
	require.ErrorIs(t, err, errs.ErrEmptyDataset)
}

func TestInverse_Correlated(t *testing.T) {
	rng := rand.New(rand.NewPCG(10, 11))
	data := correlatedData(rng, 5, 400, format.SchemeBootstrap)

	res, err := Build(data, format.WeightingCorrelated)
	require.NoError(t, err)
	inv, err := Inverse(res)
	require.NoError(t, err)

	var id mat.Dense
	id.Mul(res.Cov, inv)
	for i := 0; i < res.N; i++ {
		for j := 0; j < res.N; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			require.InDelta(t, want, id.At(i, j), 1e-8)
		}
	}
}

func TestInverse_Singular(t *testing.T) {
	// identical observables give a rank one covariance
	a := resample.FromSamples([]float64{1, 2, 3, 4}, 2.5, format.SchemeJackknife)
	res, err := Build([]*resample.Distribution{a, a.Clone()}, format.WeightingCorrelated)
	require.NoError(t, err)

	_, err = Inverse(res)
	require.ErrorIs(t, err, errs.ErrSingularMatrix)

	flat := resample.NewConstant(4, format.SchemeJackknife, 1)
	res, err = Build([]*resample.Distribution{flat}, format.WeightingUncorrelated)
	require.NoError(t, err)
	_, err = Inverse(res)
	require.ErrorIs(t, err, errs.ErrSingularMatrix)
}

func TestChiSquare(t *testing.T) {
	w := mat.NewSymDense(2, []float64{2, 0, 0, 0.5})
	require.InDelta(t, 2*1+0.5*4, ChiSquare([]float64{1, 2}, w), 1e-15)
	require.Zero(t, ChiSquare(nil, w))
}
