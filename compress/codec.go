package compress

import (
	"fmt"

	"github.com/rjhudspith/urfit/format"
)

// Compressor compresses a complete file payload.
type Compressor interface {
	// Compress returns the compressed form of data. The input is not
	// modified; the result may alias it for the no-op codec.
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor.
type Decompressor interface {
	// Decompress returns the original payload or an error when data is
	// corrupted or was produced by another algorithm.
	Decompress(data []byte) ([]byte, error)
}

// SizedDecompressor decompresses into a buffer of known size.
type SizedDecompressor interface {
	DecompressSized(data []byte, size int) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

// Stats describes the effect of a codec on one payload.
type Stats struct {
	Algorithm      format.CompressionType
	OriginalSize   int64
	CompressedSize int64
}

// CompressionRatio returns compressed size over original size, or 0 for an
// empty payload.
func (s Stats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the saved space in percent.
func (s Stats) SpaceSavings() float64 {
	return (1.0 - s.CompressionRatio()) * 100.0
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec returns the built-in codec for compressionType.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}

// Decompress decompresses data produced by codec, using the sized path when
// the codec offers one and size is known.
func Decompress(codec Decompressor, data []byte, size int) ([]byte, error) {
	if sized, ok := codec.(SizedDecompressor); ok && size > 0 {
		return sized.DecompressSized(data, size)
	}

	return codec.Decompress(data)
}
