package format

type (
	// Scheme identifies how the samples of a distribution were produced.
	Scheme int32
	// Weighting selects how residuals are weighted in a chi-square.
	Weighting uint8
	// CompressionType identifies the payload codec of a distribution file.
	CompressionType uint8
)

// Scheme codes are persisted verbatim; code 2 is unused.
const (
	SchemeRaw       Scheme = 0 // SchemeRaw represents independent raw measurements.
	SchemeJackknife Scheme = 1 // SchemeJackknife represents delete-one jackknife samples.
	SchemeBootstrap Scheme = 3 // SchemeBootstrap represents bootstrap resamples.
)

const (
	WeightingUnweighted   Weighting = 0x0 // WeightingUnweighted uses the identity as weight matrix.
	WeightingUncorrelated Weighting = 0x1 // WeightingUncorrelated uses the diagonal of the covariance.
	WeightingCorrelated   Weighting = 0x2 // WeightingCorrelated uses the full covariance.
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// Valid reports whether s is one of the known scheme codes.
func (s Scheme) Valid() bool {
	switch s {
	case SchemeRaw, SchemeJackknife, SchemeBootstrap:
		return true
	default:
		return false
	}
}

func (s Scheme) String() string {
	switch s {
	case SchemeRaw:
		return "Raw"
	case SchemeJackknife:
		return "Jackknife"
	case SchemeBootstrap:
		return "Bootstrap"
	default:
		return "Unknown"
	}
}

// ParseScheme maps a case-sensitive lower-case name to its scheme.
func ParseScheme(name string) (Scheme, bool) {
	switch name {
	case "raw":
		return SchemeRaw, true
	case "jackknife":
		return SchemeJackknife, true
	case "bootstrap":
		return SchemeBootstrap, true
	default:
		return SchemeRaw, false
	}
}

func (w Weighting) String() string {
	switch w {
	case WeightingUnweighted:
		return "Unweighted"
	case WeightingUncorrelated:
		return "Uncorrelated"
	case WeightingCorrelated:
		return "Correlated"
	default:
		return "Unknown"
	}
}

// ParseWeighting maps a lower-case name to its weighting mode.
func ParseWeighting(name string) (Weighting, bool) {
	switch name {
	case "unweighted":
		return WeightingUnweighted, true
	case "uncorrelated":
		return WeightingUncorrelated, true
	case "correlated":
		return WeightingCorrelated, true
	default:
		return WeightingUnweighted, false
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompression maps a lower-case codec name to its compression type.
func ParseCompression(name string) (CompressionType, bool) {
	switch name {
	case "", "none":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return CompressionNone, false
	}
}
