package encoding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rjhudspith/urfit/endian"
	"github.com/rjhudspith/urfit/errs"
	"github.com/rjhudspith/urfit/format"
	"github.com/rjhudspith/urfit/resample"
	"github.com/rjhudspith/urfit/section"
)

func testDistributions() []*resample.Distribution {
	return []*resample.Distribution{
		resample.FromSamples([]float64{1.5, 2.5, 3.5}, 2.5, format.SchemeJackknife),
		resample.FromSamples([]float64{-1, 0, 1, 2}, 0.5, format.SchemeBootstrap),
		resample.FromSamples(nil, math.Pi, format.SchemeRaw),
	}
}

func TestRecordEncoder_BigEndianLayout(t *testing.T) {
	enc := NewRecordEncoder(endian.GetBigEndianEngine())
	defer enc.Finish()

	d := resample.FromSamples([]float64{1}, 2, format.SchemeBootstrap)
	require.NoError(t, enc.Write(d))
	require.Equal(t, 1, enc.Len())
	require.Equal(t, section.RecordSize(1), enc.Size())

	want := []byte{
		0x00, 0x00, 0x00, 0x03, // bootstrap
		0x00, 0x00, 0x00, 0x01, // one sample
		0x3F, 0xF0, 0, 0, 0, 0, 0, 0, // 1.0
		0x40, 0x00, 0, 0, 0, 0, 0, 0, // 2.0
	}
	require.Equal(t, want, enc.Bytes())
}

func TestRecord_RoundTrip(t *testing.T) {
	for _, engine := range []endian.EndianEngine{endian.GetBigEndianEngine(), endian.GetLittleEndianEngine()} {
		t.Run(endian.Name(engine), func(t *testing.T) {
			in := testDistributions()

			enc := NewRecordEncoder(engine)
			defer enc.Finish()
			require.NoError(t, enc.WriteSlice(in))

			out, err := NewRecordDecoder(engine).Decode(enc.Bytes(), len(in))
			require.NoError(t, err)
			require.Len(t, out, len(in))
			for i := range in {
				require.Equal(t, in[i].Scheme, out[i].Scheme)
				require.Equal(t, in[i].Samples, out[i].Samples)
				require.Equal(t, math.Float64bits(in[i].Average), math.Float64bits(out[i].Average))
				require.Equal(t, in[i].Err, out[i].Err)
				require.Equal(t, in[i].ErrHi, out[i].ErrHi)
			}
		})
	}
}

func TestRecordEncoder_InvalidScheme(t *testing.T) {
	enc := NewRecordEncoder(endian.GetBigEndianEngine())
	defer enc.Finish()

	bad := resample.FromSamples([]float64{1}, 1, format.Scheme(2))
	err := enc.WriteSlice([]*resample.Distribution{testDistributions()[0], bad})
	require.ErrorIs(t, err, errs.ErrInvalidScheme)
	require.Contains(t, err.Error(), "record 1")
}

func TestRecordEncoder_FinishPanics(t *testing.T) {
	enc := NewRecordEncoder(endian.GetBigEndianEngine())
	enc.Finish()

	require.Panics(t, func() { enc.Bytes() })
	require.Panics(t, func() { _ = enc.Write(testDistributions()[0]) })
}

func TestRecordDecoder_Errors(t *testing.T) {
	engine := endian.GetBigEndianEngine()
	enc := NewRecordEncoder(engine)
	defer enc.Finish()
	require.NoError(t, enc.WriteSlice(testDistributions()))
	payload := append([]byte(nil), enc.Bytes()...)
	dec := NewRecordDecoder(engine)

	t.Run("truncated samples", func(t *testing.T) {
		_, err := dec.Decode(payload[:len(payload)-1], 3)
		require.ErrorIs(t, err, errs.ErrTruncatedRecord)
		require.ErrorIs(t, err, errs.ErrIOFailure)
	})

	t.Run("trailing bytes", func(t *testing.T) {
		_, err := dec.Decode(append(append([]byte(nil), payload...), 0, 0, 0, 0), 3)
		require.ErrorIs(t, err, errs.ErrPayloadLengthMismatch)
	})

	t.Run("count too large", func(t *testing.T) {
		_, err := dec.Decode(payload, 1<<30)
		require.ErrorIs(t, err, errs.ErrPayloadLengthMismatch)
	})

	t.Run("scheme code 2", func(t *testing.T) {
		corrupt := append([]byte(nil), payload...)
		engine.PutUint32(corrupt[0:4], 2)
		_, err := dec.Decode(corrupt, 3)
		require.ErrorIs(t, err, errs.ErrInvalidScheme)
	})

	t.Run("short header", func(t *testing.T) {
		_, _, err := dec.Next([]byte{0, 0, 0})
		require.ErrorIs(t, err, errs.ErrTruncatedRecord)
	})
}

func TestRecordDecoder_All(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	enc := NewRecordEncoder(engine)
	defer enc.Finish()
	require.NoError(t, enc.WriteSlice(testDistributions()))

	var averages []float64
	for d, err := range NewRecordDecoder(engine).All(enc.Bytes()) {
		require.NoError(t, err)
		averages = append(averages, d.Average)
	}
	require.Equal(t, []float64{2.5, 0.5, math.Pi}, averages)

	var errCount int
	for _, err := range NewRecordDecoder(engine).All(enc.Bytes()[:5]) {
		require.ErrorIs(t, err, errs.ErrTruncatedRecord)
		errCount++
	}
	require.Equal(t, 1, errCount)
}

func BenchmarkRecordDecoder_Decode(b *testing.B) {
	engine := endian.GetBigEndianEngine()
	ds := make([]*resample.Distribution, 64)
	for i := range ds {
		ds[i] = resample.NewConstant(1000, format.SchemeBootstrap, float64(i))
	}
	enc := NewRecordEncoder(engine)
	defer enc.Finish()
	if err := enc.WriteSlice(ds); err != nil {
		b.Fatal(err)
	}
	payload := enc.Bytes()
	dec := NewRecordDecoder(engine)

	b.ReportAllocs()
	b.SetBytes(int64(len(payload)))
	for b.Loop() {
		if _, err := dec.Decode(payload, len(ds)); err != nil {
			b.Fatal(err)
		}
	}
}
