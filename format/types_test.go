package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSchemeCodes(t *testing.T) {
	require.Equal(t, Scheme(0), SchemeRaw)
	require.Equal(t, Scheme(1), SchemeJackknife)
	require.Equal(t, Scheme(3), SchemeBootstrap)

	require.True(t, SchemeRaw.Valid())
	require.True(t, SchemeBootstrap.Valid())
	require.False(t, Scheme(2).Valid())
	require.False(t, Scheme(-1).Valid())
	require.Equal(t, "Unknown", Scheme(2).String())
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		ok   bool
	}{
		{name: "raw", in: "raw", ok: true},
		{name: "jackknife", in: "jackknife", ok: true},
		{name: "bootstrap", in: "bootstrap", ok: true},
		{name: "unknown", in: "delete-d", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := ParseScheme(tt.in)
			require.Equal(t, tt.ok, ok)
			if ok {
				require.Equal(t, tt.in, map[Scheme]string{
					SchemeRaw:       "raw",
					SchemeJackknife: "jackknife",
					SchemeBootstrap: "bootstrap",
				}[s])
			}
		})
	}

	w, ok := ParseWeighting("correlated")
	require.True(t, ok)
	require.Equal(t, WeightingCorrelated, w)
	require.Equal(t, "Correlated", w.String())

	c, ok := ParseCompression("")
	require.True(t, ok)
	require.Equal(t, CompressionNone, c)
	_, ok = ParseCompression("brotli")
	require.False(t, ok)
}
